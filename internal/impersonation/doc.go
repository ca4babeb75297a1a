// Package impersonation holds the support-impersonation state machine and
// its persistence. The Manager is the only component that mutates the
// session; everything else reads through it or through the identity source
// it selects.
package impersonation
