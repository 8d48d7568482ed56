// Package cli provides the interactive localauth terminal client.
//
// It wires configuration, the secure slot backend, the credential, session
// and profile stores and an interactive REPL. On start it resumes a stored
// session if one exists; otherwise the user signs up or logs in.
//
// Commands:
//   - signup: create or replace an account (form is kept as a draft between runs)
//   - login: authenticate; five consecutive failures lock the form until the
//     email changes
//   - whoami: show the signed-in profile
//   - logout: end the session, keeping stored accounts
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
