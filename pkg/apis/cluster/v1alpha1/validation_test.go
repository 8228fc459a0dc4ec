package v1alpha1_test

import (
	"testing"

	v1alpha1 "github.com/bibiserv/bibigrid/pkg/apis/cluster/v1alpha1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMaster() v1alpha1.Configuration {
	return v1alpha1.Configuration{
		Infrastructure: v1alpha1.InfrastructureDocker,
		SSHUser:        "ubuntu",
		MasterInstance: &v1alpha1.Instance{Type: "local", Image: "ubuntu:24.04"},
		WorkerInstances: []v1alpha1.WorkerInstance{
			{Type: "local", Image: "ubuntu:24.04", Count: 2},
		},
	}
}

func TestValidate_Clean(t *testing.T) {
	t.Parallel()

	cfg := validMaster()

	assert.Empty(t, cfg.Validate(true))
}

func TestValidate_Findings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*v1alpha1.Configuration)
		isMaster bool
		want     error
	}{
		{
			name:     "missing infrastructure",
			mutate:   func(c *v1alpha1.Configuration) { c.Infrastructure = "" },
			isMaster: true,
			want:     v1alpha1.ErrMissingInfrastructure,
		},
		{
			name:     "unknown infrastructure",
			mutate:   func(c *v1alpha1.Configuration) { c.Infrastructure = "openstack" },
			isMaster: true,
			want:     v1alpha1.ErrInvalidInfrastructure,
		},
		{
			name:     "missing ssh user",
			mutate:   func(c *v1alpha1.Configuration) { c.SSHUser = "" },
			isMaster: true,
			want:     v1alpha1.ErrMissingSSHUser,
		},
		{
			name:     "missing master",
			mutate:   func(c *v1alpha1.Configuration) { c.MasterInstance = nil },
			isMaster: true,
			want:     v1alpha1.ErrMissingMasterInstance,
		},
		{
			name:     "incomplete master",
			mutate:   func(c *v1alpha1.Configuration) { c.MasterInstance.Image = "" },
			isMaster: true,
			want:     v1alpha1.ErrIncompleteInstance,
		},
		{
			name:     "negative worker count",
			mutate:   func(c *v1alpha1.Configuration) { c.WorkerInstances[0].Count = -1 },
			isMaster: false,
			want:     v1alpha1.ErrNegativeWorkerCount,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := validMaster()
			tc.mutate(&cfg)

			findings := cfg.Validate(tc.isMaster)
			require.Len(t, findings, 1)
			assert.ErrorIs(t, findings[0], tc.want)
		})
	}
}

func TestValidate_WorkerEntryNeedsNoMaster(t *testing.T) {
	t.Parallel()

	cfg := validMaster()
	cfg.MasterInstance = nil

	assert.Empty(t, cfg.Validate(false))
}

func TestWorkerCount(t *testing.T) {
	t.Parallel()

	cfg := v1alpha1.Configuration{WorkerInstances: []v1alpha1.WorkerInstance{
		{Count: 2}, {Count: 3}, {Count: -1},
	}}

	assert.Equal(t, 5, cfg.WorkerCount())
}
