// Package apis provides the configuration types read by bibigrid.
package apis
