package console

import (
	"errors"
	"fmt"
)

// ErrInvalidPassphrase is returned by Login for a wrong passphrase.
var ErrInvalidPassphrase = errors.New("invalid passphrase")

// ValidationError reports a rejected console command argument.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidation checks if an error is a ValidationError.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
