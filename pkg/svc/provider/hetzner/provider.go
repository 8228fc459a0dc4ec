package hetzner

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	v1alpha1 "github.com/bibiserv/bibigrid/pkg/apis/cluster/v1alpha1"
	"github.com/bibiserv/bibigrid/pkg/svc/provider"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/sirupsen/logrus"
)

// TokenEnv is read when the configuration carries no hcloudToken.
const TokenEnv = "HCLOUD_TOKEN"

// DefaultActionTimeout is the timeout for waiting on Hetzner actions.
const DefaultActionTimeout = 5 * time.Minute

// Provider implements provider.Provider for Hetzner Cloud servers.
type Provider struct {
	client   *hcloud.Client
	cloud    string
	location string
	network  string
	log      logrus.FieldLogger

	retryTimeout time.Duration
	retryUnit    time.Duration
}

// NewProvider creates a Hetzner Cloud provider for cfg using client.
func NewProvider(
	client *hcloud.Client,
	cfg v1alpha1.Configuration,
	log logrus.FieldLogger,
	opts ...Option,
) *Provider {
	cloud := cfg.Cloud
	if cloud == "" {
		cloud = cfg.Location
	}

	if log == nil {
		log = logrus.StandardLogger()
	}

	prov := &Provider{
		client:       client,
		cloud:        cloud,
		location:     cfg.Location,
		network:      cfg.Network,
		log:          log.WithField("provider", string(v1alpha1.InfrastructureHetzner)),
		retryTimeout: DefaultRetryTimeout,
		retryUnit:    DefaultRetryUnit,
	}

	for _, opt := range opts {
		opt(prov)
	}

	return prov
}

// NewFactory returns the factory registered for the hetzner infrastructure.
// Extra client options are appended after the token, which lets tests point
// the client at a fake endpoint.
func NewFactory(opts ...hcloud.ClientOption) provider.Factory {
	return func(_ context.Context, cfg v1alpha1.Configuration, log logrus.FieldLogger) (provider.Provider, error) {
		token := cfg.HcloudToken
		if token == "" {
			token = os.Getenv(TokenEnv)
		}

		if token == "" {
			return nil, ErrMissingToken
		}

		clientOpts := append([]hcloud.ClientOption{
			hcloud.WithToken(token),
			hcloud.WithApplication("bibigrid", ""),
		}, opts...)

		return NewProvider(hcloud.NewClient(clientOpts...), cfg, log), nil
	}
}

// Name returns "hetzner".
func (p *Provider) Name() string {
	return string(v1alpha1.InfrastructureHetzner)
}

// Cloud returns the configured cloud label, falling back to the location.
func (p *Provider) Cloud() string {
	return p.cloud
}

// ListAllClusters returns the ids of all clusters with bibigrid-owned servers.
func (p *Provider) ListAllClusters(ctx context.Context) ([]string, error) {
	servers, err := p.listServers(ctx, provider.LabelOwned+"=true")
	if err != nil {
		return nil, err
	}

	clusters := make([]string, 0, len(servers))

	for _, server := range servers {
		id := server.Labels[provider.LabelClusterID]
		if id != "" && !slices.Contains(clusters, id) {
			clusters = append(clusters, id)
		}
	}

	slices.Sort(clusters)

	return clusters, nil
}

// ListNodes returns all nodes for the given cluster based on labels.
func (p *Provider) ListNodes(ctx context.Context, clusterID string) ([]provider.NodeInfo, error) {
	servers, err := p.listServers(ctx, clusterSelector(clusterID))
	if err != nil {
		return nil, err
	}

	nodes := make([]provider.NodeInfo, 0, len(servers))
	for _, server := range servers {
		nodes = append(nodes, toNodeInfo(server))
	}

	return nodes, nil
}

// NodesExist returns true if nodes exist for the given cluster id.
func (p *Provider) NodesExist(ctx context.Context, clusterID string) (bool, error) {
	nodes, err := p.ListNodes(ctx, clusterID)
	if err != nil {
		return false, err
	}

	return len(nodes) > 0, nil
}

// CreateNode creates a server behind the cluster firewall and waits until it is running.
func (p *Provider) CreateNode(ctx context.Context, spec provider.NodeSpec) (provider.NodeInfo, error) {
	if p.client == nil {
		return provider.NodeInfo{}, provider.ErrProviderUnavailable
	}

	name := spec.Name()

	firewall, err := p.EnsureFirewall(ctx, spec.ClusterID)
	if err != nil {
		return provider.NodeInfo{}, err
	}

	opts := hcloud.ServerCreateOpts{
		Name:             name,
		ServerType:       &hcloud.ServerType{Name: spec.Instance.Type},
		Image:            &hcloud.Image{Name: spec.Instance.Image},
		Labels:           provider.Labels(spec),
		StartAfterCreate: hcloud.Ptr(true),
		UserData:         cloudInit(spec.SSHUser),
		Firewalls: []*hcloud.ServerCreateFirewall{
			{Firewall: hcloud.Firewall{ID: firewall.ID}},
		},
	}

	location := spec.Location
	if location == "" {
		location = p.location
	}

	if location != "" {
		opts.Location = &hcloud.Location{Name: location}
	}

	network := spec.Network
	if network == "" {
		network = p.network
	}

	if network != "" {
		hnet, err := p.lookupNetwork(ctx, network)
		if err != nil {
			return provider.NodeInfo{}, err
		}

		opts.Networks = []*hcloud.Network{hnet}
	}

	var result hcloud.ServerCreateResult

	err = p.withRetry(ctx, "create server", func(ctx context.Context) error {
		var createErr error

		result, _, createErr = p.client.Server.Create(ctx, opts)

		return createErr
	})
	if err != nil {
		p.log.WithField("node", name).WithField("class", classify(err)).Debug("server creation rejected")

		return provider.NodeInfo{}, fmt.Errorf("failed to create server %s: %w", name, err)
	}

	err = p.waitForAction(ctx, result.Action)
	if err != nil {
		return provider.NodeInfo{}, fmt.Errorf("failed waiting for server %s creation: %w", name, err)
	}

	p.log.WithField("node", name).WithField("id", result.Server.ID).Debug("server created")

	return toNodeInfo(result.Server), nil
}

// DeleteNodes removes all servers for the given cluster and then its firewall.
func (p *Provider) DeleteNodes(ctx context.Context, clusterID string) error {
	servers, err := p.listServers(ctx, clusterSelector(clusterID))
	if err != nil {
		return err
	}

	if len(servers) == 0 {
		return fmt.Errorf("%w: %s", provider.ErrNoNodes, clusterID)
	}

	for _, server := range servers {
		result, _, err := p.client.Server.DeleteWithResult(ctx, server)
		if err != nil {
			return fmt.Errorf("failed to delete server %s: %w", server.Name, err)
		}

		err = p.waitForAction(ctx, result.Action)
		if err != nil {
			return fmt.Errorf("failed waiting for server %s deletion: %w", server.Name, err)
		}

		p.log.WithField("node", server.Name).Debug("server deleted")
	}

	return p.deleteInfrastructure(ctx, clusterID)
}

// Close is a no-op; the API client holds no session.
func (p *Provider) Close() error {
	return nil
}

func (p *Provider) listServers(ctx context.Context, selector string) ([]*hcloud.Server, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	servers, err := p.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: selector},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}

	return servers, nil
}

// waitForAction waits for a Hetzner action to complete.
func (p *Provider) waitForAction(ctx context.Context, action *hcloud.Action) error {
	if action == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultActionTimeout)
	defer cancel()

	_, errChan := p.client.Action.WatchProgress(ctx, action)

	err := <-errChan
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHetznerActionFailed, err)
	}

	return nil
}

func toNodeInfo(server *hcloud.Server) provider.NodeInfo {
	return provider.NodeInfo{
		Name:      server.Name,
		ClusterID: server.Labels[provider.LabelClusterID],
		Role:      server.Labels[provider.LabelRole],
		State:     string(server.Status),
		Address:   serverAddress(server),
	}
}

// serverAddress prefers the public IPv4 address and falls back to the first private one.
func serverAddress(server *hcloud.Server) string {
	if ip := server.PublicNet.IPv4.IP; ip != nil && !ip.IsUnspecified() {
		return ip.String()
	}

	for _, private := range server.PrivateNet {
		if private.IP != nil {
			return private.IP.String()
		}
	}

	return ""
}

func cloudInit(sshUser string) string {
	if sshUser == "" {
		return ""
	}

	return fmt.Sprintf("#cloud-config\nusers:\n  - default\n  - name: %s\n    sudo: ALL=(ALL) NOPASSWD:ALL\n", sshUser)
}
