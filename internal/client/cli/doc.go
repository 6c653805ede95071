// Package cli implements the interactive front end of the minhwa client.
//
// The App type wires together the session store (who is logged in), the
// access gate (evaluated before every protected command) and the conversion
// workflow (upload → convert → preview → results). The REPL itself is a thin
// dispatcher; command handlers report their own failures and always return
// the loop to an interactive state.
package cli
