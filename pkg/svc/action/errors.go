package action

import "errors"

var (
	// ErrNoProviders is returned when an action that needs a provider receives an empty set.
	ErrNoProviders = errors.New("no providers available")
	// ErrConfigurationCount is returned when configurations and providers do not pair up.
	ErrConfigurationCount = errors.New("configuration and provider count differ")
	// ErrMasterNotFound is returned when a cluster has no master node.
	ErrMasterNotFound = errors.New("master node not found")
)
