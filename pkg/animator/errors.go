package animator

import "fmt"

// InvalidInputError is returned when a route cannot be animated at all.
// Callers should render a static "no route data" state instead.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid animation input: %s", e.Reason)
}
