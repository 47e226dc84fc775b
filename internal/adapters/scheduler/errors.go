package scheduler

import "errors"

// ErrInvalidSpec is returned when a cron expression cannot be parsed.
var ErrInvalidSpec = errors.New("invalid cron spec")
