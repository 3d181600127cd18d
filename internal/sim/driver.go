// Package sim runs a flight dynamics model in real time. A Driver owns one
// model and advances it on a background goroutine with wall-clock timesteps;
// every accessor is safe to call from any goroutine concurrently with the
// loop.
package sim

import (
	"sync"
	"time"

	"github.com/falconsim/falconsim/internal/dynamics"
)

// DefaultTimestep is the nominal loop period when none is given (100 Hz).
const DefaultTimestep = 10 * time.Millisecond

// Driver owns a dynamics model and a simulation loop goroutine.
//
// One mutex guards the model and the cached control tuple, so a reader never
// observes a half-integrated state. The lock is held for the duration of one
// Update call, never across the pacing sleep. Stop is the only cancellation
// path; it blocks until the loop goroutine has exited, which may take up to
// one timestep because the final sleep is not shortened.
type Driver struct {
	mu       sync.Mutex
	physics  *dynamics.FlightDynamics
	controls dynamics.Controls
	running  bool
	paused   bool

	timestep time.Duration
	done     chan struct{}
}

// New returns a stopped driver with a fresh model. A non-positive timestep
// falls back to DefaultTimestep.
func New(timestep time.Duration) *Driver {
	if timestep <= 0 {
		timestep = DefaultTimestep
	}
	return &Driver{
		physics:  dynamics.New(),
		timestep: timestep,
	}
}

// Start spawns the simulation loop. It returns ErrAlreadyRunning if the loop
// is already active; the running flag is set before Start returns.
func (d *Driver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return ErrAlreadyRunning
	}
	d.running = true
	d.paused = false
	d.done = make(chan struct{})
	go d.loop(d.done)
	return nil
}

// Stop signals the loop and blocks until the goroutine has exited. Calling
// Stop on a stopped (or never started) driver is a no-op.
func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	done := d.done
	d.mu.Unlock()

	<-done
}

// Pause suspends physics updates. The loop goroutine keeps ticking.
func (d *Driver) Pause() {
	d.mu.Lock()
	d.paused = true
	d.mu.Unlock()
}

// Resume re-enables physics updates after Pause.
func (d *Driver) Resume() {
	d.mu.Lock()
	d.paused = false
	d.mu.Unlock()
}

// Running reports whether the loop goroutine is active.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// GetState returns a consistent snapshot of the rigid-body state.
func (d *Driver) GetState() dynamics.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.physics.State()
}

// SetState replaces the model state, typically for initialization or reset.
func (d *Driver) SetState(s dynamics.State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.physics.SetState(s)
}

// GetControls returns the control tuple currently applied to the model.
func (d *Driver) GetControls() dynamics.Controls {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.physics.Controls()
}

// SetThrust clamps throttle to [0,1] and forwards the cached control tuple.
func (d *Driver) SetThrust(throttle float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.controls.Throttle = throttle
	d.physics.SetControls(d.controls)
	d.controls = d.physics.Controls()
}

// SetControlSurfaces clamps aileron, elevator and rudder to [-1,1] and
// forwards the cached control tuple, leaving throttle unchanged.
func (d *Driver) SetControlSurfaces(aileron, elevator, rudder float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.controls.Aileron = aileron
	d.controls.Elevator = elevator
	d.controls.Rudder = rudder
	d.physics.SetControls(d.controls)
	d.controls = d.physics.Controls()
}

// Physics exposes the owned model for property configuration, e.g. setting
// wing area during setup. Direct calls on the model are not synchronized with
// the loop; configure before Start, or use Configure.
func (d *Driver) Physics() *dynamics.FlightDynamics {
	return d.physics
}

// Configure runs fn on the owned model under the driver lock, for property
// changes while the loop is running.
func (d *Driver) Configure(fn func(*dynamics.FlightDynamics)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.physics)
}

// loop advances the model by measured wall-clock dt each iteration and sleeps
// the nominal timestep to pace itself. The elapsed clock keeps advancing
// while paused, so resuming does not replay the paused interval.
func (d *Driver) loop(done chan struct{}) {
	defer close(done)

	last := time.Now()
	for {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now

		d.mu.Lock()
		if !d.running {
			d.mu.Unlock()
			return
		}
		if !d.paused {
			d.physics.Update(dt)
		}
		d.mu.Unlock()

		time.Sleep(d.timestep)
	}
}
