package mobile

import "errors"

var (
	ErrNonFiniteAcceleration = errors.New("acceleration must be finite")
	ErrNonFiniteVelocity     = errors.New("velocity must be finite")
	ErrObjectClosed          = errors.New("mobile object is closed")
	ErrUnknownAxis           = errors.New("unknown axis")
)
