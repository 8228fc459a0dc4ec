package cmd

import (
	"strings"

	"github.com/bibiserv/bibigrid/pkg/cli/dispatch"
	"github.com/bibiserv/bibigrid/pkg/utils/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flag names.
const (
	VerbosityFlagName           = "verbosity"
	DebugFlagName               = "debug"
	ConfigInputFlagName         = "config-input"
	DefaultConfigInputFlagName  = "default-config-input"
	EnforcedConfigInputFlagName = "enforced-config-input"
	ClusterIDFlagName           = "cluster-id"
)

//nolint:gochecknoglobals // fixed flag surface
var actionShorthands = map[dispatch.Action]string{
	dispatch.ActionVersion:   "V",
	dispatch.ActionTerminate: "t",
	dispatch.ActionCreate:    "c",
	dispatch.ActionList:      "l",
	dispatch.ActionUpdate:    "u",
}

//nolint:gochecknoglobals // fixed flag surface
var actionUsage = map[dispatch.Action]string{
	dispatch.ActionVersion:   "Show version and exit",
	dispatch.ActionTerminate: "Terminate cluster",
	dispatch.ActionCreate:    "Create cluster",
	dispatch.ActionList:      "List clusters",
	dispatch.ActionCheck:     "Check configuration and providers",
	dispatch.ActionIde:       "Show the IDE address of a cluster",
	dispatch.ActionUpdate:    "Add missing workers to a cluster",
}

type rootOptions struct {
	verbosity           int
	debug               bool
	configInput         string
	defaultConfigInput  string
	enforcedConfigInput string
	clusterID           string
	actions             map[dispatch.Action]*bool
}

func (o *rootOptions) dispatch() dispatch.Options {
	selected := func(action dispatch.Action) bool {
		flag := o.actions[action]

		return flag != nil && *flag
	}

	return dispatch.Options{
		Version:   selected(dispatch.ActionVersion),
		Terminate: selected(dispatch.ActionTerminate),
		Create:    selected(dispatch.ActionCreate),
		List:      selected(dispatch.ActionList),
		Check:     selected(dispatch.ActionCheck),
		Ide:       selected(dispatch.ActionIde),
		Update:    selected(dispatch.ActionUpdate),
		ClusterID: o.clusterID,
		Debug:     o.debug,
	}
}

func bindFlags(cmd *cobra.Command, opts *rootOptions) {
	bindInputFlags(cmd.Flags(), opts)

	names := bindActionFlags(cmd.Flags(), opts)

	cmd.MarkFlagsOneRequired(names...)
	cmd.MarkFlagsMutuallyExclusive(names...)
}

func bindInputFlags(flags *pflag.FlagSet, opts *rootOptions) {
	flags.IntVarP(&opts.verbosity, VerbosityFlagName, "v", logging.DefaultVerbosity,
		"Verbosity level (0 warnings, 1 info, 2 debug)")
	flags.BoolVarP(&opts.debug, DebugFlagName, "d", false, "Enable debug mode")
	flags.StringVarP(&opts.configInput, ConfigInputFlagName, "i", "", "Path to user configuration")
	flags.StringVar(&opts.defaultConfigInput, DefaultConfigInputFlagName, "", "Path to default configuration")
	flags.StringVar(&opts.enforcedConfigInput, EnforcedConfigInputFlagName, "", "Path to enforced configuration")
	flags.StringVar(&opts.clusterID, ClusterIDFlagName, "", "Cluster id (defaults to the last created cluster)")
}

// bindActionFlags registers one boolean per action and returns their names.
func bindActionFlags(flags *pflag.FlagSet, opts *rootOptions) []string {
	opts.actions = make(map[dispatch.Action]*bool, len(dispatch.Actions()))
	names := make([]string, 0, len(dispatch.Actions()))

	for _, action := range dispatch.Actions() {
		name := string(action)
		opts.actions[action] = flags.BoolP(name, actionShorthands[action], false, actionUsage[action])
		names = append(names, name)
	}

	return names
}

// actionGroupMarker is the part of cobra's flag group errors naming the action group.
func actionGroupMarker() string {
	names := make([]string, 0, len(dispatch.Actions()))
	for _, action := range dispatch.Actions() {
		names = append(names, string(action))
	}

	return "flags in the group [" + strings.Join(names, " ") + "]"
}
