package hetzner

import (
	"context"
	"fmt"
	"net"

	"github.com/bibiserv/bibigrid/pkg/svc/provider"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// FirewallSuffix is appended to the node prefix and cluster id for firewall naming.
const FirewallSuffix = "-firewall"

// FirewallName returns the name of the firewall guarding a cluster.
func FirewallName(clusterID string) string {
	return "bibigrid-" + clusterID + FirewallSuffix
}

// ResourceLabels creates the label set for cluster-wide resources.
func ResourceLabels(clusterID string) map[string]string {
	return map[string]string{
		provider.LabelOwned:     "true",
		provider.LabelClusterID: clusterID,
	}
}

// clusterSelector selects every resource of a cluster.
func clusterSelector(clusterID string) string {
	return fmt.Sprintf("%s=true,%s=%s", provider.LabelOwned, provider.LabelClusterID, clusterID)
}

// EnsureFirewall ensures a firewall exists for the cluster, creating it if needed.
func (p *Provider) EnsureFirewall(ctx context.Context, clusterID string) (*hcloud.Firewall, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	name := FirewallName(clusterID)

	var firewall *hcloud.Firewall

	err := p.withRetry(ctx, "ensure firewall", func(ctx context.Context) error {
		existing, _, err := p.client.Firewall.GetByName(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to get firewall %s: %w", name, err)
		}

		if existing != nil {
			firewall = existing

			return nil
		}

		result, _, err := p.client.Firewall.Create(ctx, hcloud.FirewallCreateOpts{
			Name:   name,
			Labels: ResourceLabels(clusterID),
			Rules:  buildFirewallRules(),
		})
		if err != nil {
			return fmt.Errorf("failed to create firewall %s: %w", name, err)
		}

		firewall = result.Firewall

		return nil
	})
	if err != nil {
		return nil, err
	}

	return firewall, nil
}

// lookupNetwork returns the existing network called name.
func (p *Provider) lookupNetwork(ctx context.Context, name string) (*hcloud.Network, error) {
	network, _, err := p.client.Network.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get network %s: %w", name, err)
	}

	if network == nil {
		return nil, fmt.Errorf("%w: %s", ErrNetworkNotFound, name)
	}

	return network, nil
}

// buildFirewallRules opens SSH, the IDE port and ICMP.
func buildFirewallRules() []hcloud.FirewallRule {
	anyIP := []net.IPNet{
		{IP: net.ParseIP("0.0.0.0"), Mask: net.CIDRMask(0, 32)},
		{IP: net.ParseIP("::"), Mask: net.CIDRMask(0, 128)},
	}

	return []hcloud.FirewallRule{
		{
			Direction:   hcloud.FirewallRuleDirectionIn,
			Protocol:    hcloud.FirewallRuleProtocolTCP,
			Port:        hcloud.Ptr("22"),
			SourceIPs:   anyIP,
			Description: hcloud.Ptr("SSH"),
		},
		{
			Direction:   hcloud.FirewallRuleDirectionIn,
			Protocol:    hcloud.FirewallRuleProtocolTCP,
			Port:        hcloud.Ptr(provider.IDEPort),
			SourceIPs:   anyIP,
			Description: hcloud.Ptr("IDE"),
		},
		{
			Direction:   hcloud.FirewallRuleDirectionIn,
			Protocol:    hcloud.FirewallRuleProtocolICMP,
			SourceIPs:   anyIP,
			Description: hcloud.Ptr("ICMP (ping)"),
		},
	}
}

// deleteInfrastructure removes the cluster-wide resources left after the servers are gone.
func (p *Provider) deleteInfrastructure(ctx context.Context, clusterID string) error {
	firewalls, err := p.client.Firewall.AllWithOpts(ctx, hcloud.FirewallListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: clusterSelector(clusterID)},
	})
	if err != nil {
		return fmt.Errorf("failed to list firewalls: %w", err)
	}

	for _, firewall := range firewalls {
		_, err = p.client.Firewall.Delete(ctx, firewall)
		if err != nil {
			p.log.WithField("firewall", firewall.Name).
				WithField("class", classify(err)).
				Warnf("failed to delete firewall: %v", err)
		}
	}

	return nil
}
