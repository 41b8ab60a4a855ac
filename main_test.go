package main

import (
	"flag"
	"testing"

	"termchess-local/clock"
	"termchess-local/config"
	"termchess-local/testutil"
)

// withFlags sets command-line flags for one test and restores them after.
func withFlags(t *testing.T, values map[string]string) map[string]bool {
	t.Helper()
	set := make(map[string]bool)
	for name, v := range values {
		old := flag.Lookup(name).Value.String()
		if err := flag.Set(name, v); err != nil {
			t.Fatalf("set -%s=%s: %v", name, v, err)
		}
		t.Cleanup(func() { flag.Set(name, old) })
		set[name] = true
	}
	return set
}

func useDefaultConfig(t *testing.T) {
	t.Helper()
	c := config.Default()
	prev := cfg
	cfg = &c
	t.Cleanup(func() { cfg = prev })
}

func TestGameConfigFromFlagsRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		flags map[string]string
	}{
		{"zero base", map[string]string{"base": "0"}},
		{"negative base", map[string]string{"base": "-5"}},
		{"negative increment", map[string]string{"increment": "-3"}},
		{"both", map[string]string{"base": "-5", "increment": "-3"}},
		{"preset with bad increment", map[string]string{"preset": "Blitz", "increment": "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useDefaultConfig(t)
			set := withFlags(t, tt.flags)
			_, err := buildGameConfigFromFlags(set)
			testutil.AssertErrorIs(t, err, clock.ErrInvalidConfiguration)
			testutil.AssertTrue(t, isQuickStart(set), "time flags start a game")
		})
	}
}

func TestGameConfigFromFlags(t *testing.T) {
	tests := []struct {
		name      string
		flags     map[string]string
		base, inc int
	}{
		{"config defaults", nil, 600, 0},
		{"base only", map[string]string{"base": "90"}, 90, 0},
		{"preset", map[string]string{"preset": "blitz"}, 180, 2},
		{"preset overridden", map[string]string{"preset": "Blitz", "increment": "5"}, 180, 5},
		{"zero increment", map[string]string{"base": "300", "increment": "0"}, 300, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useDefaultConfig(t)
			gc, err := buildGameConfigFromFlags(withFlags(t, tt.flags))
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, [2]int{gc.BaseSeconds, gc.IncrementSeconds}, [2]int{tt.base, tt.inc})
		})
	}
}

func TestGameConfigFromFlagsUnknownPreset(t *testing.T) {
	useDefaultConfig(t)
	_, err := buildGameConfigFromFlags(withFlags(t, map[string]string{"preset": "Armageddon"}))
	testutil.AssertTrue(t, err != nil, "unknown preset must be rejected")
}

func TestGameConfigFromFlagsNames(t *testing.T) {
	useDefaultConfig(t)
	gc, err := buildGameConfigFromFlags(withFlags(t, map[string]string{"white": "Alice", "black": "Bob"}))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, gc.WhiteName, "Alice")
	testutil.AssertEqual(t, gc.BlackName, "Bob")
}

func TestSetFlagsSeesExplicitValues(t *testing.T) {
	withFlags(t, map[string]string{"base": "-5"})
	set := setFlags()
	testutil.AssertTrue(t, set["base"], "explicit -base is reported")
}

func TestQuickStart(t *testing.T) {
	testutil.AssertFalse(t, isQuickStart(map[string]bool{"white": true}))
	testutil.AssertTrue(t, isQuickStart(withFlags(t, map[string]string{"play": "true"})))
}
