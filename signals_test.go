package cryptkeeper

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitScanStart(_ *testing.T) {
	// Should not panic
	EmitScanStart(context.Background(), "demo")
}

func TestEmitScanComplete_Success(_ *testing.T) {
	EmitScanComplete(context.Background(), "demo", 2, 9, 100*time.Millisecond, nil)
}

func TestEmitScanComplete_Error(_ *testing.T) {
	EmitScanComplete(context.Background(), "demo", 0, 0, 100*time.Millisecond, errors.New("test error"))
}

func TestEmitEmitStart(_ *testing.T) {
	EmitEmitStart(context.Background(), "demo", 2)
}

func TestEmitEmitComplete_Success(_ *testing.T) {
	EmitEmitComplete(context.Background(), "demo", 1024, 100*time.Millisecond, nil)
}

func TestEmitEmitComplete_Error(_ *testing.T) {
	EmitEmitComplete(context.Background(), "demo", 0, 100*time.Millisecond, errors.New("test error"))
}

func TestSignalVariables(t *testing.T) {
	signals := []struct {
		name   string
		signal interface{}
	}{
		{"SignalScanStart", SignalScanStart},
		{"SignalScanComplete", SignalScanComplete},
		{"SignalEmitStart", SignalEmitStart},
		{"SignalEmitComplete", SignalEmitComplete},
	}

	for _, s := range signals {
		if s.signal == nil {
			t.Errorf("%s is nil", s.name)
		}
	}
}

func TestKeyVariables(t *testing.T) {
	keys := []struct {
		name string
		key  interface{}
	}{
		{"KeyPackage", KeyPackage},
		{"KeyStructCount", KeyStructCount},
		{"KeyFieldCount", KeyFieldCount},
		{"KeySize", KeySize},
		{"KeyDuration", KeyDuration},
		{"KeyError", KeyError},
	}

	for _, k := range keys {
		if k.key == nil {
			t.Errorf("%s is nil", k.name)
		}
	}
}
