package docker

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	v1alpha1 "github.com/bibiserv/bibigrid/pkg/apis/cluster/v1alpha1"
	"github.com/bibiserv/bibigrid/pkg/svc/provider"
	"github.com/bibiserv/bibigrid/pkg/utils/netretry"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/sirupsen/logrus"
)

// DefaultCloud labels Docker providers whose configuration names no cloud.
const DefaultCloud = "local"

// keepAlive keeps node containers running without an init system.
var keepAlive = []string{"sleep", "infinity"} //nolint:gochecknoglobals

// ContainerAPI is the subset of the Docker client the provider needs.
type ContainerAPI interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerCreate(
		ctx context.Context,
		config *container.Config,
		hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig,
		platform *v1.Platform,
		containerName string,
	) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ImageInspect(ctx context.Context, imageID string, opts ...client.ImageInspectOption) (image.InspectResponse, error)
	ImagePull(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error)
	Close() error
}

// Provider implements provider.Provider for Docker-based clusters.
type Provider struct {
	client     ContainerAPI
	cloud      string
	log        logrus.FieldLogger
	pullPolicy netretry.Policy
}

// NewProvider creates a Docker provider for cfg using cli.
func NewProvider(cli ContainerAPI, cfg v1alpha1.Configuration, log logrus.FieldLogger) *Provider {
	cloud := cfg.Cloud
	if cloud == "" {
		cloud = DefaultCloud
	}

	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Provider{
		client:     cli,
		cloud:      cloud,
		log:        log.WithField("provider", string(v1alpha1.InfrastructureDocker)),
		pullPolicy: netretry.DefaultPolicy,
	}
}

// NewFactory returns the factory registered for the docker infrastructure.
// It connects to DOCKER_HOST (or cfg.DockerHost) and pings the daemon.
func NewFactory() provider.Factory {
	return func(ctx context.Context, cfg v1alpha1.Configuration, log logrus.FieldLogger) (provider.Provider, error) {
		opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
		if cfg.DockerHost != "" {
			opts = append(opts, client.WithHost(cfg.DockerHost))
		}

		cli, err := client.NewClientWithOpts(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create docker client: %w", err)
		}

		_, err = cli.Ping(ctx)
		if err != nil {
			_ = cli.Close()

			return nil, fmt.Errorf("%w: %w", provider.ErrProviderUnavailable, err)
		}

		return NewProvider(cli, cfg, log), nil
	}
}

// Name returns "docker".
func (p *Provider) Name() string {
	return string(v1alpha1.InfrastructureDocker)
}

// Cloud returns the configured cloud label.
func (p *Provider) Cloud() string {
	return p.cloud
}

// ListAllClusters returns the ids of all clusters with bibigrid-owned containers.
func (p *Provider) ListAllClusters(ctx context.Context) ([]string, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	containers, err := p.client.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("label", provider.LabelOwned+"=true")),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	clusters := make([]string, 0, len(containers))

	for _, ctr := range containers {
		id := ctr.Labels[provider.LabelClusterID]
		if id != "" && !slices.Contains(clusters, id) {
			clusters = append(clusters, id)
		}
	}

	slices.Sort(clusters)

	return clusters, nil
}

// ListNodes returns all nodes for the given cluster.
func (p *Provider) ListNodes(ctx context.Context, clusterID string) ([]provider.NodeInfo, error) {
	if p.client == nil {
		return nil, provider.ErrProviderUnavailable
	}

	containers, err := p.listContainers(ctx, clusterID)
	if err != nil {
		return nil, err
	}

	nodes := make([]provider.NodeInfo, 0, len(containers))
	for _, ctr := range containers {
		nodes = append(nodes, toNodeInfo(ctr))
	}

	return nodes, nil
}

// NodesExist returns true if any nodes exist for the given cluster.
func (p *Provider) NodesExist(ctx context.Context, clusterID string) (bool, error) {
	if p.client == nil {
		return false, provider.ErrProviderUnavailable
	}

	containers, err := p.listContainers(ctx, clusterID)
	if err != nil {
		return false, err
	}

	return len(containers) > 0, nil
}

// CreateNode pulls the instance image if needed, then creates and starts the node container.
func (p *Provider) CreateNode(ctx context.Context, spec provider.NodeSpec) (provider.NodeInfo, error) {
	if p.client == nil {
		return provider.NodeInfo{}, provider.ErrProviderUnavailable
	}

	name := spec.Name()
	log := p.log.WithField("node", name)

	err := p.ensureImage(ctx, spec.Instance.Image)
	if err != nil {
		return provider.NodeInfo{}, fmt.Errorf("ensure image for %s: %w", name, err)
	}

	hostConfig := &container.HostConfig{
		RestartPolicy: container.RestartPolicy{Name: container.RestartPolicyUnlessStopped},
	}

	var networkConfig *network.NetworkingConfig

	if spec.Network != "" {
		hostConfig.NetworkMode = container.NetworkMode(spec.Network)
		networkConfig = &network.NetworkingConfig{
			EndpointsConfig: map[string]*network.EndpointSettings{spec.Network: {}},
		}
	}

	resp, err := p.client.ContainerCreate(ctx, &container.Config{
		Image:    spec.Instance.Image,
		Hostname: name,
		Labels:   provider.Labels(spec),
		Env:      []string{"BIBIGRID_SSH_USER=" + spec.SSHUser},
		Cmd:      keepAlive,
	}, hostConfig, networkConfig, nil, name)
	if err != nil {
		return provider.NodeInfo{}, fmt.Errorf("failed to create container %s: %w", name, err)
	}

	for _, warning := range resp.Warnings {
		log.Warn(warning)
	}

	err = p.client.ContainerStart(ctx, resp.ID, container.StartOptions{})
	if err != nil {
		return provider.NodeInfo{}, fmt.Errorf("failed to start container %s: %w", name, err)
	}

	log.WithField("id", resp.ID).Debug("container started")

	return p.findNode(ctx, spec.ClusterID, name)
}

// DeleteNodes force-removes all containers of the given cluster.
func (p *Provider) DeleteNodes(ctx context.Context, clusterID string) error {
	if p.client == nil {
		return provider.ErrProviderUnavailable
	}

	containers, err := p.listContainers(ctx, clusterID)
	if err != nil {
		return err
	}

	if len(containers) == 0 {
		return fmt.Errorf("%w: %s", provider.ErrNoNodes, clusterID)
	}

	for _, ctr := range containers {
		err := p.client.ContainerRemove(ctx, ctr.ID, container.RemoveOptions{
			Force:         true,
			RemoveVolumes: true,
		})
		if err != nil {
			return fmt.Errorf("failed to remove container %s: %w", ctr.ID, err)
		}

		p.log.WithField("node", containerName(ctr)).Debug("container removed")
	}

	return nil
}

// Close releases the Docker client.
func (p *Provider) Close() error {
	if p.client == nil {
		return nil
	}

	err := p.client.Close()
	if err != nil {
		return fmt.Errorf("failed to close docker client: %w", err)
	}

	return nil
}

func (p *Provider) listContainers(ctx context.Context, clusterID string) ([]container.Summary, error) {
	containers, err := p.client.ContainerList(ctx, container.ListOptions{
		All: true,
		Filters: filters.NewArgs(
			filters.Arg("label", provider.LabelOwned+"=true"),
			filters.Arg("label", provider.LabelClusterID+"="+clusterID),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	return containers, nil
}

func (p *Provider) findNode(ctx context.Context, clusterID, name string) (provider.NodeInfo, error) {
	nodes, err := p.ListNodes(ctx, clusterID)
	if err != nil {
		return provider.NodeInfo{}, err
	}

	for _, node := range nodes {
		if node.Name == name {
			return node, nil
		}
	}

	return provider.NodeInfo{Name: name, ClusterID: clusterID}, nil
}

// ensureImage pulls the image if not already present locally.
func (p *Provider) ensureImage(ctx context.Context, ref string) error {
	_, err := p.client.ImageInspect(ctx, ref)
	if err == nil {
		return nil
	}

	return netretry.Do(ctx, p.pullPolicy, func(ctx context.Context) error {
		reader, err := p.client.ImagePull(ctx, ref, image.PullOptions{})
		if err != nil {
			return fmt.Errorf("pull image: %w", err)
		}

		defer func() { _ = reader.Close() }()

		_, err = io.Copy(io.Discard, reader)
		if err != nil {
			return fmt.Errorf("read pull output: %w", err)
		}

		return nil
	})
}

func toNodeInfo(ctr container.Summary) provider.NodeInfo {
	return provider.NodeInfo{
		Name:      containerName(ctr),
		ClusterID: ctr.Labels[provider.LabelClusterID],
		Role:      ctr.Labels[provider.LabelRole],
		State:     string(ctr.State),
		Address:   containerAddress(ctr),
	}
}

func containerName(ctr container.Summary) string {
	if len(ctr.Names) == 0 {
		return ctr.ID
	}

	return strings.TrimPrefix(ctr.Names[0], "/")
}

// containerAddress returns the first IP address found, preferring networks in name order.
func containerAddress(ctr container.Summary) string {
	if ctr.NetworkSettings == nil {
		return ""
	}

	names := make([]string, 0, len(ctr.NetworkSettings.Networks))
	for name := range ctr.NetworkSettings.Networks {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		endpoint := ctr.NetworkSettings.Networks[name]
		if endpoint != nil && endpoint.IPAddress != "" {
			return endpoint.IPAddress
		}
	}

	return ""
}
