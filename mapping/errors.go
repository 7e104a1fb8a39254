package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSelectionRequired signals that the workbook has multiple sheets and none
// has been chosen yet. No default sheet is ever picked silently.
var ErrSelectionRequired = errors.New("sheet selection required")

// ErrAlreadyCommitted signals a second commit on the same session.
var ErrAlreadyCommitted = errors.New("mapping session already committed")

// ValidationError reports the required fields still missing a mapped header
// at commit time. The session stays correctable; the caller can re-surface
// the mapping screen without losing prior choices.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required fields unmapped: %s", strings.Join(e.Missing, ", "))
}
