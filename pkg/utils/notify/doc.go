// Package notify prints short, styled messages to CLI users outside of the
// logging facility, such as usage errors and crash reports that must reach
// the terminal before (or without) a configured logger.
//
// Message types include error (✗), warning (⚠) and hint (ℹ).
package notify
