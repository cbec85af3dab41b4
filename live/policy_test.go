package live

import (
	"testing"
)

func TestPolicy(t *testing.T) {
	p := NewPolicy([]string{"Discordbot", ""}, 10)

	tests := []struct {
		userAgent string
		frameCap  int
	}{
		{"Mozilla/5.0 (compatible; Discordbot/2.0; +https://discordapp.com)", 10},
		{"Mozilla/5.0 (X11; Linux x86_64) Firefox/130.0", 0},
		{"", 0},
		{"discordbot", 0},
	}
	for _, tt := range tests {
		if got := p.FrameCap(tt.userAgent); got != tt.frameCap {
			t.Fatalf("FrameCap(%q) = %d, expected %d", tt.userAgent, got, tt.frameCap)
		}
	}

	p.Update([]string{"Slackbot"}, 3)
	if got := p.FrameCap("Slackbot-LinkExpanding 1.0"); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := p.FrameCap("Discordbot/2.0"); got != 0 {
		t.Fatalf("expected the old agent to be dropped, got %d", got)
	}

	p.Update([]string{"Slackbot"}, 0)
	if got := p.FrameCap("Slackbot"); got != 0 {
		t.Fatalf("a zero cap disables capping, got %d", got)
	}
}
