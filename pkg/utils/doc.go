// Package utils holds small helpers shared across bibigrid.
//
//   - logging: dual-sink logger with the Announcement severity
//   - netretry: retries for transient network failures
//   - notify: formatted messages for the terminal
//   - timer: elapsed time tracking for an action run
package utils
