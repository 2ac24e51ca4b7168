package console

import (
	"errors"
	"math"
	"testing"
)

func TestDeskStateRoundTrip(t *testing.T) {
	src, err := NewDesk(1000)
	if err != nil {
		t.Fatalf("NewDesk() error = %v", err)
	}

	targets := map[string]float64{
		ParamInputGain:  2,
		ParamPush:       0.25,
		ParamMultiplier: 4,
		TapCoeffName(2): -0.3,
		TapSkewName(5):  0.15,
		ParamDryWet:     0.75,
	}
	for name, v := range targets {
		if err := src.Parameters().SetTarget(name, v); err != nil {
			t.Fatalf("SetTarget(%q) error = %v", name, err)
		}
	}

	data, err := src.SaveState()
	if err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}

	dst, err := NewDesk(1000)
	if err != nil {
		t.Fatalf("NewDesk() error = %v", err)
	}
	if err := dst.LoadState(data); err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}

	want := src.Parameters().Snapshot()
	got := dst.Parameters().Snapshot()
	for name, wantV := range want {
		if gotV, ok := got[name]; !ok || gotV != wantV {
			t.Errorf("restored target %q = %v, want %v", name, gotV, wantV)
		}
	}
}

func TestDeskLoadStateInvalidJSON(t *testing.T) {
	d, err := NewDesk(1000)
	if err != nil {
		t.Fatalf("NewDesk() error = %v", err)
	}

	if err := d.LoadState([]byte("{not json")); err == nil {
		t.Error("LoadState() with invalid JSON expected error, got nil")
	}
}

func TestDeskLoadStateVersionGate(t *testing.T) {
	d, err := NewDesk(1000)
	if err != nil {
		t.Fatalf("NewDesk() error = %v", err)
	}

	err = d.LoadState([]byte(`{"version": 2, "params": {}}`))
	if !errors.Is(err, ErrStateVersion) {
		t.Errorf("LoadState() error = %v, want ErrStateVersion", err)
	}

	if err := d.LoadState([]byte(`{"version": 1, "params": {}}`)); err != nil {
		t.Errorf("LoadState() with current version error = %v", err)
	}
}

func TestDeskLoadStateIgnoresUnknownAndClamps(t *testing.T) {
	d, err := NewDesk(1000)
	if err != nil {
		t.Fatalf("NewDesk() error = %v", err)
	}

	state := `{"version": 1, "params": {"free_gain": 99, "bogus": 1, "Push": 0.5}}`
	if err := d.LoadState([]byte(state)); err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}

	gain, err := d.Parameters().ByName(ParamInputGain)
	if err != nil {
		t.Fatalf("ByName() error = %v", err)
	}
	if got := gain.Target(); math.Abs(got-gain.Range().Max()) > 1e-12 {
		t.Errorf("out-of-range gain restored as %v, want clamped to %v", got, gain.Range().Max())
	}

	push, err := d.Parameters().ByName(ParamPush)
	if err != nil {
		t.Fatalf("ByName() error = %v", err)
	}
	if push.Target() != 0.5 {
		t.Errorf("push target = %v, want 0.5", push.Target())
	}
}
