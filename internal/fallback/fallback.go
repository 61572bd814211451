// Package fallback turns a failing data path into a substitute value.
package fallback

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Observer is notified whenever a substitute value is used.
type Observer interface {
	FallbackUsed(component string)
}

// Do runs primary and returns its value. If primary errors or panics, the
// failure is logged at warn level and the value of alt is returned instead.
func Do[T any](log zerolog.Logger, what string, primary func() (T, error), alt func() T) T {
	return DoObserved(log, nil, what, primary, alt)
}

// DoObserved is Do with an observer that is told about every fallback.
func DoObserved[T any](log zerolog.Logger, obs Observer, what string, primary func() (T, error), alt func() T) T {
	v, err := safeCall(primary)
	if err == nil {
		return v
	}
	log.Warn().Err(err).Str("component", what).Msg("primary path failed, using fallback")
	if obs != nil {
		obs.FallbackUsed(what)
	}
	return alt()
}

func safeCall[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// Value returns a constant alternative for Do.
func Value[T any](v T) func() T {
	return func() T { return v }
}
