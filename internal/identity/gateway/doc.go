// Package gateway is the boundary to the hosted identity service.
//
// The rest of the console never talks to the remote service directly; it
// asks an IdentitySource "who is logged in". Normally that is the
// Passthrough adapter proxying the remote session. While a support
// impersonation is active the Impersonated adapter is selected instead,
// answering from the cached presented identity without a network round-trip.
// The remote service has no concept of impersonation and there is no way to
// obtain a legitimate session for another user without their credentials.
package gateway
