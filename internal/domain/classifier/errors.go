package classifier

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidConfig     = errors.New("invalid classifier config")
	ErrUnknownClassifier = errors.New("unknown classifier")
)
