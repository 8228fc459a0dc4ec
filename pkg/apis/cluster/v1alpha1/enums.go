package v1alpha1

import (
	"fmt"
	"strings"
)

// Infrastructure names the backend a configuration entry is provisioned on.
type Infrastructure string

const (
	// InfrastructureDocker runs cluster nodes as Docker containers.
	InfrastructureDocker Infrastructure = "docker"
	// InfrastructureHetzner runs cluster nodes as Hetzner Cloud servers.
	InfrastructureHetzner Infrastructure = "hetzner"
)

// ValidInfrastructures returns every supported infrastructure.
func ValidInfrastructures() []Infrastructure {
	return []Infrastructure{InfrastructureDocker, InfrastructureHetzner}
}

// Set for Infrastructure (pflag.Value interface).
func (i *Infrastructure) Set(value string) error {
	for _, infra := range ValidInfrastructures() {
		if strings.EqualFold(strings.TrimSpace(value), string(infra)) {
			*i = infra

			return nil
		}
	}

	return fmt.Errorf(
		"%w: %s (valid options: %s, %s)",
		ErrInvalidInfrastructure,
		value,
		InfrastructureDocker,
		InfrastructureHetzner,
	)
}

// String returns the string representation of the Infrastructure.
func (i *Infrastructure) String() string {
	return string(*i)
}

// Type returns the type of the Infrastructure.
func (i *Infrastructure) Type() string {
	return "Infrastructure"
}

// Default returns the default value for Infrastructure (docker).
func (i *Infrastructure) Default() any {
	return InfrastructureDocker
}

// ValidValues returns all valid Infrastructure values as strings.
func (i *Infrastructure) ValidValues() []string {
	return []string{string(InfrastructureDocker), string(InfrastructureHetzner)}
}
