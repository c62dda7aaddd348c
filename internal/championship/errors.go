package championship

import "fmt"

// InvalidInputError reports result rows that cannot belong to the season
// being computed, such as a round number outside the supplied calendar.
// A bad row aborts the whole computation; silently dropping it would corrupt
// the championship ordering.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid championship input: %s", e.Reason)
}

func invalidInputf(format string, args ...interface{}) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}
