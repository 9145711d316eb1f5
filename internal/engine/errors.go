package engine

import "errors"

var (
	// ErrInvalidWorkoutSpec marks a caller contract violation: an unknown
	// category, an unknown intensity, or attributes that do not belong to
	// the category kind.
	ErrInvalidWorkoutSpec = errors.New("invalid workout spec")

	// ErrProviderUnavailable is a terminal nutrition lookup failure. No
	// partial meal is assembled when any outcome carries it.
	ErrProviderUnavailable = errors.New("nutrition provider unavailable")

	// ErrNothingToAggregate is returned when every ingredient lookup failed.
	ErrNothingToAggregate = errors.New("no nutrition data to aggregate")
)
