// Package identity holds the normalized view of a user account as known to
// the hosted identity service, plus the static role hierarchy used to gate
// support impersonation.
//
// Remote profile payloads are inconsistent about naming (display_name vs
// first/last name vs nothing at all), so every payload entering the process
// is converted exactly once, via FromProfile, into the single Identity type
// the rest of the console works with.
package identity
