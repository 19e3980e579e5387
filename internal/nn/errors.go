package nn

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNullArgument reports that a required argument was absent (nil).
	ErrNullArgument = errors.New("null argument")
	// ErrInvalidArgument reports that an argument was present but structurally wrong.
	ErrInvalidArgument = errors.New("invalid argument")
)

func nullArgument(name, msg string) error {
	return errors.Wrapf(ErrNullArgument, "%s: %s", name, msg)
}

func invalidArgument(name, format string, args ...any) error {
	return errors.Wrapf(ErrInvalidArgument, "%s: %s", name, fmt.Sprintf(format, args...))
}
