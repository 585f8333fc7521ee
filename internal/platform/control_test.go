package platform

import (
	"strings"
	"testing"
	"time"
)

func TestNewControlStartsPaused(t *testing.T) {
	ctrl := NewControl()
	if !ctrl.Running() {
		t.Fatal("control should start running")
	}
	if !ctrl.Paused() {
		t.Fatal("control should start paused")
	}
	if got := ctrl.Delay(); got != DefaultDelay {
		t.Fatalf("default delay: got=%v want=%v", got, DefaultDelay)
	}
}

func TestTakeResetConsumesRequest(t *testing.T) {
	ctrl := NewControl()
	if ctrl.TakeReset() {
		t.Fatal("reset taken without a request")
	}
	ctrl.RequestReset()
	if !ctrl.ResetPending() {
		t.Fatal("reset not pending after request")
	}
	if !ctrl.TakeReset() {
		t.Fatal("pending reset not taken")
	}
	if ctrl.TakeReset() {
		t.Fatal("reset taken twice")
	}
}

func TestSetDelayClampsNegative(t *testing.T) {
	ctrl := NewControl()
	ctrl.SetDelay(-time.Second)
	if got := ctrl.Delay(); got != 0 {
		t.Fatalf("negative delay not clamped: %v", got)
	}
}

func TestListenTokenStream(t *testing.T) {
	ctrl := NewControl()
	in := strings.NewReader("resume speed 20 bogus reset pause start stop resume")
	if err := Listen(in, ctrl, nil); err != nil {
		t.Fatalf("listen: %v", err)
	}
	if ctrl.Running() {
		t.Fatal("stop did not end the run")
	}
	// stop returns immediately, so the trailing resume never applies
	// and the last pause/start pair leaves the loop unpaused.
	if ctrl.Paused() {
		t.Fatal("start did not resume")
	}
	if !ctrl.ResetPending() {
		t.Fatal("reset request lost")
	}
	if got := ctrl.Delay(); got != 20*time.Millisecond {
		t.Fatalf("speed command: got=%v want=20ms", got)
	}
}

func TestListenSpeedClampsAndSkipsMalformed(t *testing.T) {
	ctrl := NewControl()
	if err := Listen(strings.NewReader("speed -5 speed abc pause"), ctrl, nil); err != nil {
		t.Fatalf("listen: %v", err)
	}
	if got := ctrl.Delay(); got != 0 {
		t.Fatalf("negative speed not clamped: %v", got)
	}
	if !ctrl.Paused() {
		t.Fatal("tokens after malformed speed ignored")
	}
}

func TestListenEOFLeavesControlRunning(t *testing.T) {
	ctrl := NewControl()
	if err := Listen(strings.NewReader("resume"), ctrl, nil); err != nil {
		t.Fatalf("listen: %v", err)
	}
	if !ctrl.Running() {
		t.Fatal("EOF should not stop the run")
	}
	if ctrl.Paused() {
		t.Fatal("resume lost")
	}
}
