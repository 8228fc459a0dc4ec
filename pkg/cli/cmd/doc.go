// Package cmd provides the bibigrid command line.
//
// The root command exposes one flag per lifecycle action and requires exactly
// one of them. It loads the settings, sets up logging, reads and merges the
// cluster configuration and hands the selected action to the dispatcher.
package cmd
