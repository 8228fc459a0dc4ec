// Package cli contains the command line surface of bibigrid.
//
//   - cli/cmd: the cobra root command and its flags
//   - cli/dispatch: turns parsed flags into exactly one action run
//   - cli/ui/errorhandler: cobra execution with normalized error messages
package cli
