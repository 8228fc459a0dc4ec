// Package v1alpha1 contains the typed view of a bibigrid cluster configuration.
package v1alpha1

// Configuration is one entry of a cluster configuration file. The first entry
// describes the master provider; further entries add workers on other providers.
type Configuration struct {
	Infrastructure  Infrastructure   `json:"infrastructure"            mapstructure:"infrastructure"`
	Cloud           string           `json:"cloud,omitempty"           mapstructure:"cloud"`
	SSHUser         string           `json:"sshUser,omitempty"         mapstructure:"sshUser"`
	Network         string           `json:"network,omitempty"         mapstructure:"network"`
	Location        string           `json:"location,omitempty"        mapstructure:"location"`
	HcloudToken     string           `json:"hcloudToken,omitempty"     mapstructure:"hcloudToken"`
	DockerHost      string           `json:"dockerHost,omitempty"      mapstructure:"dockerHost"`
	MasterInstance  *Instance        `json:"masterInstance,omitempty"  mapstructure:"masterInstance"`
	WorkerInstances []WorkerInstance `json:"workerInstances,omitempty" mapstructure:"workerInstances"`
}

// Instance selects the machine type and image of a node.
type Instance struct {
	Type  string `json:"type"  mapstructure:"type"`
	Image string `json:"image" mapstructure:"image"`
}

// WorkerInstance is a group of identical worker nodes.
type WorkerInstance struct {
	Type  string `json:"type"  mapstructure:"type"`
	Image string `json:"image" mapstructure:"image"`
	Count int    `json:"count" mapstructure:"count"`
}

// Instance returns the machine type and image of the group.
func (w WorkerInstance) Instance() Instance {
	return Instance{Type: w.Type, Image: w.Image}
}

// WorkerCount sums the counts of every worker group.
func (c *Configuration) WorkerCount() int {
	total := 0

	for _, group := range c.WorkerInstances {
		total += max(group.Count, 0)
	}

	return total
}
