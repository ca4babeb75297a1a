package identity

import "errors"

var (
	// ErrSecondaryEqualsPrimary is returned when an identity carries a
	// secondary role equal to its primary role.
	ErrSecondaryEqualsPrimary = errors.New("secondary role must differ from primary role")
)
