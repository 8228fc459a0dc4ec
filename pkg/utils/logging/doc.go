// Package logging provides the dual-sink logger used across bibigrid.
//
// Every entry goes to two sinks: the console, whose threshold follows the
// requested verbosity, and an append-only log file that always captures
// Debug and above. On top of the usual severities the package defines
// Announcement, which ranks above all of them and is used for milestone
// messages the user must always see.
package logging
