package live

import (
	"slices"
	"strings"
	"sync/atomic"
)

// Policy decides per request how many frames a client gets.
// It is safe for concurrent use and can be replaced while the server runs.
type Policy struct {
	current atomic.Pointer[policy]
}

type policy struct {
	agents   []string
	frameCap int
}

func NewPolicy(limitedAgents []string, frameCap int) *Policy {
	p := &Policy{}
	p.Update(limitedAgents, frameCap)
	return p
}

func (p *Policy) Update(limitedAgents []string, frameCap int) {
	agents := slices.DeleteFunc(slices.Clone(limitedAgents), func(agent string) bool {
		return agent == ""
	})
	if frameCap < 0 {
		frameCap = 0
	}
	p.current.Store(&policy{agents: agents, frameCap: frameCap})
}

// FrameCap returns the number of frames to send to userAgent, 0 for an endless stream.
func (p *Policy) FrameCap(userAgent string) int {
	current := p.current.Load()
	if current == nil || current.frameCap == 0 {
		return 0
	}
	for _, agent := range current.agents {
		if strings.Contains(userAgent, agent) {
			return current.frameCap
		}
	}
	return 0
}
