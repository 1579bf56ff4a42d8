// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates CLI flags into the application's internal configuration.
//
// Exit codes: 2 for usage errors, 3 when the input document is invalid and
// 1 for anything else.
package cli
