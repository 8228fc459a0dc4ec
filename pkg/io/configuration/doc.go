// Package configuration reads bibigrid cluster configuration files and merges
// them with optional default and enforced layers.
//
// A configuration file is a YAML list of mappings, one per provider, the first
// one describing the master provider. A single mapping is accepted as a
// one-element list.
package configuration
