package camera

import "errors"

var (
	// ErrConstruction is returned when a camera cannot be built from the
	// given parameters (neither focal length nor field of view).
	ErrConstruction = errors.New("camera construction")

	// ErrValidation is returned for a malformed or out-of-range parameter.
	// The receiver is left unchanged.
	ErrValidation = errors.New("invalid camera parameter")
)
