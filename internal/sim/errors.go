package sim

import "errors"

// Domain errors for driver lifecycle operations.
var (
	// ErrAlreadyRunning indicates Start was called on a running driver.
	ErrAlreadyRunning = errors.New("sim: driver already running")
)
