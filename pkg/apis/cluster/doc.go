// Package cluster provides the versioned cluster configuration types.
//
// A configuration file holds one document per provider. The first document
// describes the master and shared settings, later ones add workers on other
// providers.
package cluster
