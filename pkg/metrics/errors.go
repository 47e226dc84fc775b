package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrRegister = errors.New("metrics register failed")
)
