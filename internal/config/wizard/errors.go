package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errBaseNameRequired = errors.New("base name is required")
	errBaseNameInvalid  = errors.New("base name must be 1-32 lowercase alphanumeric characters or hyphens, starting and ending with alphanumeric")
	errSizeRequired     = errors.New("size is required")
	errSizeInvalid      = errors.New("invalid size (expected a number with optional K/M/G suffix)")
)
