// Sparky Admin is the administration console for the Sparky Messaging SaaS.
//
// It fronts the hosted identity service with a local profile directory,
// role-based impersonation for support staff, and a small asset upload area.
// The console never verifies credentials itself; sign-in is delegated to the
// remote identity provider and only the resulting session is cached locally.
package main
