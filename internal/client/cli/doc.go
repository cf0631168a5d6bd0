// Package cli provides the interactive command-line client of the exalaa
// interview platform.
//
// It wires the view controller to a REPL whose command set follows the
// current view: login while unauthenticated; dashboard, applications and
// questionnaire commands on the dashboard; a read-only application card in
// the editor view. A background watcher pings the server and shows
// online/offline in the prompt.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
