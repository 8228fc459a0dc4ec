// Package svc provides the service layer behind the bibigrid command.
//
// Subpackages:
//   - action: the user-facing actions (create, list, terminate and friends)
//   - memory: the record of the last created cluster
//   - provider: cloud provider abstraction with Docker and Hetzner adapters
package svc
