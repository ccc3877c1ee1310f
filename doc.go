// Package auth implements the authentication and authorization subsystem
// of the Prestalink marketplace backend: bcrypt credential hashing, HS256
// access tokens bound to revocable session logs, federated (Google)
// sign-in with account auto-provisioning, and a declarative role guard
// for HTTP routes.
//
// Session model:
//   - Every successful sign-in (local or federated) opens a SessionLog
//     row and the issued token embeds its id. Authorization checks the
//     log on every request, so a token dies the moment its session gets
//     a logout timestamp, independent of its cryptographic expiry.
//
// Access control:
//   - Routes declare a RouteAccess record (public, or a set of allowed
//     roles) and AccessGuard enforces it. Role checks pass when the user
//     holds at least one of the allowed roles; an empty list means any
//     authenticated user.
package auth
