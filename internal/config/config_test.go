package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Preset != "double-pendulum" {
		t.Errorf("expected preset double-pendulum, got %s", cfg.Preset)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != 4 {
		t.Errorf("expected 4 presets, got %d", len(names))
	}
	for _, want := range []string{"double-pendulum", "acrobot", "free-floating-body", "quadruped-leg"} {
		if _, ok := Presets[want]; !ok {
			t.Errorf("expected preset %q", want)
		}
	}
}

func TestPresetDims(t *testing.T) {
	tests := []struct {
		preset string
		nq, nv int
	}{
		{"double-pendulum", 2, 2},
		{"acrobot", 2, 2},
		{"free-floating-body", 7, 6},
		{"quadruped-leg", 3, 3},
	}
	for _, tt := range tests {
		mech := Presets[tt.preset].Build()
		nq, nv := PresetDims(mech)
		if nq != tt.nq || nv != tt.nv {
			t.Errorf("preset %s: expected (nq=%d, nv=%d), got (nq=%d, nv=%d)", tt.preset, tt.nq, tt.nv, nq, nv)
		}
	}
}

func TestValidateRejectsUnknownPreset(t *testing.T) {
	cfg := &RunConfig{Preset: "nonexistent", Dt: 0.01, Duration: 1}
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an unknown preset")
	}
}

func TestValidateRejectsMismatchedInitialState(t *testing.T) {
	cfg := &RunConfig{Preset: "double-pendulum", Dt: 0.01, Duration: 1, InitialConfiguration: []float64{0.1}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected a dimension error for a short initial_configuration")
	}
}
