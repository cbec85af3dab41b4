package main

import (
	"testing"

	"github.com/allape/livegif/envar"
)

func TestRunHelp(t *testing.T) {
	t.Setenv(envar.LivegifConfig, "")

	for _, args := range [][]string{{"-h"}, {"--help"}} {
		if code := run(args); code != 0 {
			t.Fatalf("%v: expected exit code 0, got %d", args, code)
		}
	}
}

func TestRunInvalidFlag(t *testing.T) {
	t.Setenv(envar.LivegifConfig, "")

	if code := run([]string{"--width", "0"}); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}
