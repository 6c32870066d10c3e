// Package cli provides the interactive RecipeBox command-line client.
//
// It wires configuration, the identity/data collaborator, the session
// guard, the recipe facade and the optional S3 export into a REPL.
//
// Commands:
//   - register / login / logout
//   - list [letter], show <n>, add
//   - export
//   - help, exit
//
// The access token is kept in <session dir>/session with mode 0600 so a
// login survives restarts. Every protected command asks the collaborator
// who owns that token before doing anything; when the answer is negative
// the user is offered one login attempt.
package cli
