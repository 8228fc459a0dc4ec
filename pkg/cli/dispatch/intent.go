package dispatch

import (
	"errors"
	"fmt"
)

// Action names one lifecycle action.
type Action string

const (
	ActionVersion   Action = "version"
	ActionTerminate Action = "terminate"
	ActionCreate    Action = "create"
	ActionList      Action = "list"
	ActionCheck     Action = "check"
	ActionIde       Action = "ide"
	ActionUpdate    Action = "update"
)

// Actions returns every action in command line order.
func Actions() []Action {
	return []Action{
		ActionVersion,
		ActionTerminate,
		ActionCreate,
		ActionList,
		ActionCheck,
		ActionIde,
		ActionUpdate,
	}
}

// NeedsClusterID reports whether the action works on an existing cluster and
// falls back to the last created one when no id is given.
func (a Action) NeedsClusterID() bool {
	switch a {
	case ActionTerminate, ActionIde, ActionUpdate:
		return true
	case ActionVersion, ActionCreate, ActionList, ActionCheck:
		return false
	default:
		return false
	}
}

// ErrActionCount is returned when not exactly one action is selected.
var ErrActionCount = errors.New("exactly one action must be selected")

// Options mirrors the command line flags that shape dispatch.
type Options struct {
	Version   bool
	Terminate bool
	Create    bool
	List      bool
	Check     bool
	Ide       bool
	Update    bool

	ClusterID string
	Debug     bool
}

func (o Options) selected() []Action {
	flags := map[Action]bool{
		ActionVersion:   o.Version,
		ActionTerminate: o.Terminate,
		ActionCreate:    o.Create,
		ActionList:      o.List,
		ActionCheck:     o.Check,
		ActionIde:       o.Ide,
		ActionUpdate:    o.Update,
	}

	var selected []Action

	for _, action := range Actions() {
		if flags[action] {
			selected = append(selected, action)
		}
	}

	return selected
}

// Intent is the validated, immutable request of one invocation.
type Intent struct {
	action    Action
	clusterID string
	debug     bool
}

// NewIntent validates opts and returns the resulting intent.
func NewIntent(opts Options) (Intent, error) {
	selected := opts.selected()
	if len(selected) != 1 {
		return Intent{}, fmt.Errorf("%w: got %d", ErrActionCount, len(selected))
	}

	return Intent{action: selected[0], clusterID: opts.ClusterID, debug: opts.Debug}, nil
}

// Action returns the selected action.
func (i Intent) Action() Action { return i.action }

// ClusterID returns the cluster id given on the command line, if any.
func (i Intent) ClusterID() string { return i.clusterID }

// Debug reports whether debug mode was requested.
func (i Intent) Debug() bool { return i.debug }
