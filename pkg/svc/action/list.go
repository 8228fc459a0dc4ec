package action

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bibiserv/bibigrid/pkg/svc/provider"
	"github.com/bibiserv/bibigrid/pkg/utils/logging"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/sync/errgroup"
)

// ListHeader is the column header of the cluster table.
//
//nolint:gochecknoglobals // fixed table layout
var ListHeader = []string{"CLUSTER ID", "PROVIDER", "CLOUD", "ROLE", "NODE", "STATE", "ADDRESS"}

// Row is one node line of the cluster table.
type Row struct {
	ClusterID string
	Provider  string
	Cloud     string
	Node      provider.NodeInfo
}

func (r Row) cells() []any {
	return []any{r.ClusterID, r.Provider, r.Cloud, r.Node.Role, r.Node.Name, r.Node.State, r.Node.Address}
}

// List logs every cluster known to providers. When clusterID is set only that
// cluster is shown.
func List(ctx context.Context, clusterID string, providers *provider.Set, log *logging.Logger) (int, error) {
	rows, err := Collect(ctx, clusterID, providers)
	if err != nil {
		return 0, err
	}

	if len(rows) == 0 {
		if clusterID != "" {
			log.Infof("Cluster %s not found.", clusterID)
		} else {
			log.Infof("No clusters found.")
		}

		return 0, nil
	}

	table, err := RenderTable(rows)
	if err != nil {
		return 0, err
	}

	log.Infof("Clusters:\n%s", table)

	return 0, nil
}

// Collect queries every provider concurrently and returns one row per node,
// ordered by cluster id, provider position and node name.
func Collect(ctx context.Context, clusterID string, providers *provider.Set) ([]Row, error) {
	all := providers.All()
	results := make([][]Row, len(all))

	group, groupCtx := errgroup.WithContext(ctx)

	for i, prov := range all {
		group.Go(func() error {
			rows, err := collectProvider(groupCtx, clusterID, prov)
			if err != nil {
				return fmt.Errorf("list %s clusters: %w", prov.Name(), err)
			}

			results[i] = rows

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return nil, err //nolint:wrapcheck // already wrapped per provider
	}

	var rows []Row
	for _, providerRows := range results {
		rows = append(rows, providerRows...)
	}

	slices.SortStableFunc(rows, func(a, b Row) int {
		if c := strings.Compare(a.ClusterID, b.ClusterID); c != 0 {
			return c
		}

		return strings.Compare(a.Node.Name, b.Node.Name)
	})

	return rows, nil
}

func collectProvider(ctx context.Context, clusterID string, prov provider.Provider) ([]Row, error) {
	clusters := []string{clusterID}

	if clusterID == "" {
		var err error

		clusters, err = prov.ListAllClusters(ctx)
		if err != nil {
			return nil, err //nolint:wrapcheck // wrapped by caller
		}
	}

	var rows []Row

	for _, id := range clusters {
		nodes, err := prov.ListNodes(ctx, id)
		if err != nil {
			return nil, err //nolint:wrapcheck // wrapped by caller
		}

		for _, node := range nodes {
			rows = append(rows, Row{ClusterID: id, Provider: prov.Name(), Cloud: prov.Cloud(), Node: node})
		}
	}

	return rows, nil
}

// RenderTable formats rows as a left-aligned table.
func RenderTable(rows []Row) (string, error) {
	var buf bytes.Buffer

	header := make([]any, len(ListHeader))
	for i, h := range ListHeader {
		header[i] = h
	}

	table := tablewriter.NewTable(&buf,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
	)
	table.Header(header...)

	for _, row := range rows {
		err := table.Append(row.cells()...)
		if err != nil {
			return "", fmt.Errorf("append table row: %w", err)
		}
	}

	err := table.Render()
	if err != nil {
		return "", fmt.Errorf("render table: %w", err)
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}
