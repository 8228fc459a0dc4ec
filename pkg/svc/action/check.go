package action

import (
	"context"
	"fmt"

	v1alpha1 "github.com/bibiserv/bibigrid/pkg/apis/cluster/v1alpha1"
	"github.com/bibiserv/bibigrid/pkg/svc/provider"
	"github.com/bibiserv/bibigrid/pkg/utils/logging"
)

// Check validates every configuration and verifies that each provider answers.
// Each finding is logged as a warning. It exits 0 when nothing was found and 1 otherwise.
func Check(
	ctx context.Context,
	configs []v1alpha1.Configuration,
	providers *provider.Set,
	log *logging.Logger,
) (int, error) {
	var findings []string

	for i := range configs {
		for _, err := range configs[i].Validate(i == 0) {
			findings = append(findings, fmt.Sprintf("configuration %d: %v", i, err))
		}
	}

	if providers.Len() != len(configs) {
		findings = append(findings, fmt.Sprintf("%v: %d configurations, %d providers",
			ErrConfigurationCount, len(configs), providers.Len()))
	}

	for _, prov := range providers.All() {
		_, err := prov.ListAllClusters(ctx)
		if err != nil {
			findings = append(findings, fmt.Sprintf("provider %s (%s) is not reachable: %v", prov.Name(), prov.Cloud(), err))
		}
	}

	if len(findings) > 0 {
		for _, finding := range findings {
			log.Warnf("%s", finding)
		}

		log.Infof("Check found %d problem(s).", len(findings))

		return 1, nil
	}

	log.Infof("Total check returned no problems.")

	return 0, nil
}
