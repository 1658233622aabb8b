package briefing

import (
	"errors"
	"fmt"
)

// GenerationUnavailableError reports that the remote generator could not
// produce a briefing. Callers may fall back to Placeholder.
type GenerationUnavailableError struct {
	Err error
}

func (e *GenerationUnavailableError) Error() string {
	return fmt.Sprintf("briefing generation unavailable: %v", e.Err)
}

func (e *GenerationUnavailableError) Unwrap() error {
	return e.Err
}

// IsGenerationUnavailable reports whether err is (or wraps) a GenerationUnavailableError
func IsGenerationUnavailable(err error) bool {
	var ge *GenerationUnavailableError
	return errors.As(err, &ge)
}
