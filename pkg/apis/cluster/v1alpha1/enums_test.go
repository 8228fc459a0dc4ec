package v1alpha1_test

import (
	"testing"

	v1alpha1 "github.com/bibiserv/bibigrid/pkg/apis/cluster/v1alpha1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfrastructure_Set(t *testing.T) {
	t.Parallel()

	var infra v1alpha1.Infrastructure

	require.NoError(t, infra.Set("Hetzner"))
	assert.Equal(t, v1alpha1.InfrastructureHetzner, infra)

	require.NoError(t, infra.Set(" docker "))
	assert.Equal(t, v1alpha1.InfrastructureDocker, infra)

	err := infra.Set("openstack")
	require.ErrorIs(t, err, v1alpha1.ErrInvalidInfrastructure)
	assert.Contains(t, err.Error(), "valid options: docker, hetzner")
	assert.Equal(t, v1alpha1.InfrastructureDocker, infra)
}

func TestInfrastructure_PflagValue(t *testing.T) {
	t.Parallel()

	infra := v1alpha1.InfrastructureHetzner

	assert.Equal(t, "hetzner", infra.String())
	assert.Equal(t, "Infrastructure", infra.Type())
	assert.Equal(t, v1alpha1.InfrastructureDocker, infra.Default())
	assert.Equal(t, []string{"docker", "hetzner"}, infra.ValidValues())
}
