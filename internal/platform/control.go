package platform

import (
	"bufio"
	"io"
	"strconv"
	"sync/atomic"
	"time"
)

// DefaultDelay is the initial inter-tick delay for interactive runs.
const DefaultDelay = 500 * time.Millisecond

// Control is the shared run-control state between the simulation loop and
// whatever drives it (stdin listener, API caller, test). All fields are
// atomic; the loop polls them only at tick boundaries.
type Control struct {
	running atomic.Bool
	paused  atomic.Bool
	reset   atomic.Bool
	delayMS atomic.Int64
}

// NewControl returns run control in its interactive starting state:
// running, paused, with the default tick delay.
func NewControl() *Control {
	c := &Control{}
	c.running.Store(true)
	c.paused.Store(true)
	c.delayMS.Store(int64(DefaultDelay / time.Millisecond))
	return c
}

// Stop ends the run. It is terminal; there is no restart.
func (c *Control) Stop() { c.running.Store(false) }

func (c *Control) Running() bool { return c.running.Load() }

func (c *Control) Pause()  { c.paused.Store(true) }
func (c *Control) Resume() { c.paused.Store(false) }

func (c *Control) Paused() bool { return c.paused.Load() }

// RequestReset asks the loop to tear down and rebuild the network and
// world. The request stays pending until the loop consumes it.
func (c *Control) RequestReset() { c.reset.Store(true) }

// ResetPending reports a pending reset without consuming it.
func (c *Control) ResetPending() bool { return c.reset.Load() }

// TakeReset consumes a pending reset request. Only the simulation loop
// should call it.
func (c *Control) TakeReset() bool { return c.reset.CompareAndSwap(true, false) }

// SetDelay sets the inter-tick delay. Negative values clamp to zero.
func (c *Control) SetDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.delayMS.Store(int64(d / time.Millisecond))
}

func (c *Control) Delay() time.Duration {
	return time.Duration(c.delayMS.Load()) * time.Millisecond
}

// Listen reads whitespace-separated control tokens from r until EOF or a
// stop command: stop, pause, resume (alias start), reset, and speed
// followed by a delay in milliseconds. Unknown tokens and malformed speed
// values are logged and skipped. logf may be nil.
func Listen(r io.Reader, ctrl *Control, logf func(format string, args ...any)) error {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		cmd := sc.Text()
		logf("control: received %q", cmd)
		switch cmd {
		case "stop":
			ctrl.Stop()
			return nil
		case "pause":
			ctrl.Pause()
		case "resume", "start":
			ctrl.Resume()
		case "reset":
			ctrl.RequestReset()
		case "speed":
			if !sc.Scan() {
				break
			}
			ms, err := strconv.Atoi(sc.Text())
			if err != nil {
				logf("control: bad speed value %q", sc.Text())
				continue
			}
			ctrl.SetDelay(time.Duration(ms) * time.Millisecond)
		default:
			logf("control: unknown command %q", cmd)
		}
	}
	return sc.Err()
}
