package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.IsFeatureEnabled(FeatStrictReturn) {
		t.Error("strict-return should be off by default")
	}
	if !cfg.IsFeatureEnabled(FeatNamedSlots) {
		t.Error("named-slots should be on by default")
	}
	if !cfg.IsFeatureEnabled(FeatVerify) {
		t.Error("verify should be on by default")
	}
	if cfg.IntBits != 32 || cfg.ByteBits != 8 {
		t.Errorf("type widths are %d/%d, want 32/8", cfg.IntBits, cfg.ByteBits)
	}
}

func TestApplyFlag(t *testing.T) {
	tests := []struct {
		flag    string
		applied bool
		check   func(*Config) bool
	}{
		{"Fstrict-return", true, func(c *Config) bool { return c.IsFeatureEnabled(FeatStrictReturn) }},
		{"Fno-named-slots", true, func(c *Config) bool { return !c.IsFeatureEnabled(FeatNamedSlots) }},
		{"Wno-unreachable-code", true, func(c *Config) bool { return !c.IsWarningEnabled(WarnUnreachableCode) }},
		{"Wunreachable-code", true, func(c *Config) bool { return c.IsWarningEnabled(WarnUnreachableCode) }},
		{"Wno-such-warning", false, nil},
		{"Fbogus", false, nil},
		{"", false, nil},
		{"X", false, nil},
	}
	for _, tt := range tests {
		cfg := NewConfig()
		if got := cfg.ApplyFlag(tt.flag); got != tt.applied {
			t.Errorf("ApplyFlag(%q) = %v, want %v", tt.flag, got, tt.applied)
			continue
		}
		if tt.check != nil && !tt.check(cfg) {
			t.Errorf("ApplyFlag(%q) did not take effect", tt.flag)
		}
	}
}

func TestApplyFlagWall(t *testing.T) {
	cfg := NewConfig()
	cfg.SetWarning(WarnUnreachableCode, false)
	cfg.SetWarning(WarnExtra, false)

	if !cfg.ApplyFlag("Wall") {
		t.Fatal("Wall not recognized")
	}

	want := map[Warning]bool{WarnUnreachableCode: true, WarnExtra: true}
	got := map[Warning]bool{}
	for w := Warning(0); w < WarnCount; w++ {
		got[w] = cfg.IsWarningEnabled(w)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("warning states after Wall (-want +got):\n%s", diff)
	}

	if !cfg.ApplyFlag("Wno-all") {
		t.Fatal("Wno-all not recognized")
	}
	for w := Warning(0); w < WarnCount; w++ {
		if cfg.IsWarningEnabled(w) {
			t.Errorf("warning %s still enabled after Wno-all", cfg.Warnings[w].Name)
		}
	}
}

func TestUnknownToggleIgnored(t *testing.T) {
	cfg := NewConfig()
	cfg.SetFeature(Feature(999), true) // silently ignored
	if cfg.IsFeatureEnabled(Feature(999)) {
		t.Error("unknown feature index became enabled")
	}
}
