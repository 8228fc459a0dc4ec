package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"runtime/debug"
	"strings"
	"time"

	v1alpha1 "github.com/bibiserv/bibigrid/pkg/apis/cluster/v1alpha1"
	"github.com/bibiserv/bibigrid/pkg/svc/provider"
	"github.com/bibiserv/bibigrid/pkg/utils/logging"
	"github.com/bibiserv/bibigrid/pkg/utils/timer"
)

// Exit states produced by the engine.
const (
	ExitSuccess     = 0
	ExitNoProviders = 1
	ExitFailure     = 2
)

// CreateNotice is announced before a cluster is created.
const CreateNotice = "Creating a new cluster takes about 10 or more minutes depending on your cloud provider " +
	"and your configuration. Please be patient."

// Request is what an action gets to work with.
type Request struct {
	ClusterID  string
	Configs    []v1alpha1.Configuration
	ConfigPath string
	Providers  *provider.Set
	Debug      bool
	Log        *logging.Logger
}

// ActionFunc runs one action and returns its exit code.
type ActionFunc func(ctx context.Context, req Request) (int, error)

// ActionSet holds the implementation of every action.
type ActionSet struct {
	Version   func(w io.Writer) (int, error)
	Terminate ActionFunc
	Create    ActionFunc
	List      ActionFunc
	Check     ActionFunc
	Ide       ActionFunc
	Update    ActionFunc
}

func (s ActionSet) lookup(action Action) ActionFunc {
	switch action {
	case ActionTerminate:
		return s.Terminate
	case ActionCreate:
		return s.Create
	case ActionList:
		return s.List
	case ActionCheck:
		return s.Check
	case ActionIde:
		return s.Ide
	case ActionUpdate:
		return s.Update
	case ActionVersion:
		return nil
	default:
		return nil
	}
}

// Engine runs a single resolved action.
type Engine struct {
	Acquirer provider.Acquirer
	Actions  ActionSet
	Memory   MemoryReader
	Timer    timer.Timer
	Log      *logging.Logger
	// Out receives the version banner. Defaults to os.Stdout.
	Out io.Writer
}

// Run executes intent and returns the exit state of the invocation.
//
// Version is answered without touching any provider. Every other action runs
// between acquiring and releasing the provider set; the elapsed time is
// announced once whatever the outcome. The timer starts a new stage once the
// providers are ready.
func (e *Engine) Run(ctx context.Context, intent Intent, configs []v1alpha1.Configuration, configPath string) int {
	if intent.Action() == ActionVersion {
		return e.runVersion()
	}

	clock := e.Timer
	if clock == nil {
		clock = timer.New()
	}

	clock.Start()

	exit := e.execute(ctx, clock, intent, configs, configPath)

	total, stage := clock.GetTiming()
	clock.Stop()

	e.Log.Debugf("Action %s ran for %s", intent.Action(), stage)
	e.Log.Announcef("%s", FormatElapsed(total))

	return exit
}

func (e *Engine) runVersion() int {
	e.Log.Infof("Action %s selected", ActionVersion)

	out := e.Out
	if out == nil {
		out = os.Stdout
	}

	if e.Actions.Version == nil {
		return ExitSuccess
	}

	code, err := e.Actions.Version(out)
	if err != nil {
		e.Log.Errorf("%v", err)

		return ExitFailure
	}

	return code
}

func (e *Engine) execute(
	ctx context.Context,
	clock timer.Timer,
	intent Intent,
	configs []v1alpha1.Configuration,
	configPath string,
) (exit int) {
	defer func() {
		if recovered := recover(); recovered != nil {
			e.logFailure(intent, fmt.Errorf("%w: %v", ErrActionPanicked, recovered), debug.Stack())

			exit = ExitFailure
		}
	}()

	set := e.Acquirer.GetProviders(ctx, configs, e.Log)
	if set.Len() == 0 {
		return ExitNoProviders
	}

	defer func() {
		err := set.Close()
		if err != nil {
			e.Log.Warnf("Couldn't close providers: %v", err)
		}
	}()

	clock.NewStage()

	code, err := e.runAction(ctx, intent, Request{
		Configs:    configs,
		ConfigPath: configPath,
		Providers:  set,
		Debug:      intent.Debug(),
		Log:        e.Log,
	})
	if err != nil {
		e.logFailure(intent, err, nil)

		return ExitFailure
	}

	return code
}

func (e *Engine) runAction(ctx context.Context, intent Intent, req Request) (int, error) {
	action := intent.Action()

	if action.NeedsClusterID() {
		resolved := Resolver{Memory: e.Memory, Log: e.Log}.Resolve(intent)
		if resolved.Skip {
			return ExitSuccess, nil
		}

		req.ClusterID = resolved.ClusterID
	} else {
		req.ClusterID = intent.ClusterID()
	}

	e.Log.Infof("Action %s selected", action)

	if action == ActionCreate {
		e.Log.Announcef("%s", CreateNotice)
	}

	run := e.Actions.lookup(action)
	if run == nil {
		return 0, fmt.Errorf("%w: %s", ErrActionNotImplemented, action)
	}

	return run(ctx, req)
}

// logFailure logs err. In debug mode it adds the stack of a recovered panic,
// or the chain of wrapped causes of a returned error.
func (e *Engine) logFailure(intent Intent, err error, stack []byte) {
	if !intent.Debug() {
		e.Log.Errorf("%v", err)

		return
	}

	if stack != nil {
		e.Log.Errorf("%v\n%s", err, stack)

		return
	}

	var trace strings.Builder

	trace.WriteString(err.Error())

	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		trace.WriteString("\ncaused by: ")
		trace.WriteString(cause.Error())
	}

	e.Log.Errorf("%s", trace.String())
}

// FormatElapsed renders d as "--- <m> minutes and <s.ss> seconds ---".
func FormatElapsed(d time.Duration) string {
	seconds := max(d.Seconds(), 0)
	minutes := math.Floor(seconds / 60)

	return fmt.Sprintf("--- %d minutes and %.2f seconds ---", int(minutes), math.Mod(seconds, 60))
}
