package gateway

import "errors"

var (
	// ErrNoSession is returned when no remote session is available, either
	// because the caller never signed in or the token expired and could not
	// be refreshed.
	ErrNoSession = errors.New("no remote session")

	// ErrRemoteUnavailable is returned when the identity service could not
	// be reached or did not answer within the call timeout. Callers degrade
	// to the anonymous identity instead of failing the page.
	ErrRemoteUnavailable = errors.New("identity service unavailable")

	// ErrProfileNotFound is returned when the identity service has no
	// profile row for the requested user id.
	ErrProfileNotFound = errors.New("profile not found")
)
