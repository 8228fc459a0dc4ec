package v1alpha1

import "fmt"

// Validate returns every problem found in the configuration. isMaster marks
// the first entry of a file, which must describe the master instance.
func (c *Configuration) Validate(isMaster bool) []error {
	var findings []error

	if c.Infrastructure == "" {
		findings = append(findings, ErrMissingInfrastructure)
	} else {
		infra := c.Infrastructure
		if err := infra.Set(string(c.Infrastructure)); err != nil {
			findings = append(findings, err)
		}
	}

	if c.SSHUser == "" {
		findings = append(findings, ErrMissingSSHUser)
	}

	if isMaster {
		switch {
		case c.MasterInstance == nil:
			findings = append(findings, ErrMissingMasterInstance)
		case c.MasterInstance.Type == "" || c.MasterInstance.Image == "":
			findings = append(findings, fmt.Errorf("masterInstance: %w", ErrIncompleteInstance))
		}
	}

	for idx, group := range c.WorkerInstances {
		if group.Type == "" || group.Image == "" {
			findings = append(findings, fmt.Errorf("workerInstances[%d]: %w", idx, ErrIncompleteInstance))
		}

		if group.Count < 0 {
			findings = append(findings, fmt.Errorf("workerInstances[%d]: %w", idx, ErrNegativeWorkerCount))
		}
	}

	return findings
}
