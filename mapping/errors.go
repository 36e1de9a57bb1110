package mapping

import (
	"errors"
	"fmt"
)

// IsInvalidKey returns true if err is caused by [InvalidKeyError].
func IsInvalidKey(err error) bool {
	var target interface {
		isInvalidKeyError()
	}

	return errors.As(err, &target)
}

// IsNotFound returns true if err is caused by [KeyNotFoundError].
func IsNotFound(err error) bool {
	var target interface {
		isKeyNotFoundError()
	}

	return errors.As(err, &target)
}

// InvalidKeyError is returned when an operation is given a key that can not
// be used to identify an entry.
type InvalidKeyError struct {
	// Mapping is the name of the mapping that rejected the key.
	Mapping string

	// Key is the rejected key.
	Key string

	// Reason describes why the key was rejected.
	Reason string
}

func (e InvalidKeyError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf(
			"the %q mapping does not accept empty keys",
			e.Mapping,
		)
	}

	return fmt.Sprintf(
		"key %q is not valid in the %q mapping: %s",
		e.Key,
		e.Mapping,
		e.Reason,
	)
}

func (InvalidKeyError) isInvalidKeyError() {}

// KeyNotFoundError is returned by [Mapping.Get] and [Mapping.Delete] when the
// requested key is not present in the mapping.
type KeyNotFoundError struct {
	// Mapping is the name of the mapping that was searched.
	Mapping string

	// Key is the key that was not found.
	Key string
}

func (e KeyNotFoundError) Error() string {
	return fmt.Sprintf(
		"key %q is not present in the %q mapping",
		e.Key,
		e.Mapping,
	)
}

func (KeyNotFoundError) isKeyNotFoundError() {}

// ValidateKey returns an [InvalidKeyError] if k is empty.
//
// Implementations may impose additional restrictions of their own.
func ValidateKey(mapping, k string) error {
	if k == "" {
		return InvalidKeyError{
			Mapping: mapping,
			Reason:  "key must not be empty",
		}
	}
	return nil
}
