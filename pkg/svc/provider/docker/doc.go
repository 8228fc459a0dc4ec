// Package docker provides a Docker-based infrastructure provider.
//
// Cluster nodes are long-running containers labelled with the bibigrid
// ownership, cluster id and role labels. The provider talks to the Docker
// Engine through the narrow ContainerAPI subset of the official client.
package docker
