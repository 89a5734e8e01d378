// Package app implements the application layer for derive.
package app

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.trai.ch/derive/internal/adapters/inputs" //nolint:depguard // Wired in app layer
	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/derive/internal/core/ports"
	"go.trai.ch/derive/internal/engine"
	"go.trai.ch/derive/internal/engine/expr"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader    ports.ConfigLoader
	logger    ports.Logger
	executor  ports.Executor
	telemetry ports.Telemetry
	builder   *engine.Builder

	mu         sync.Mutex
	registries map[string]*engine.Registry
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	logger ports.Logger,
	executor ports.Executor,
	telemetry ports.Telemetry,
) *App {
	return &App{
		loader:     loader,
		logger:     logger,
		executor:   executor,
		telemetry:  telemetry,
		builder:    engine.NewBuilder(logger),
		registries: make(map[string]*engine.Registry),
	}
}

// EvalOptions describes one evaluation request.
type EvalOptions struct {
	// CatalogPath is the catalog to evaluate against.
	CatalogPath string
	// InputsPath optionally names a YAML file of input values.
	InputsPath string
	// Inputs are applied on top of the values read from InputsPath.
	Inputs map[string]domain.Value
	// Targets are the arguments to resolve, in output order.
	Targets []string
}

// Evaluation is the outcome of a successful request.
type Evaluation struct {
	SessionID   string
	Fingerprint string
	Targets     []string
	Values      map[string]domain.Value
}

// Registry returns the registry built from the catalog at path.
// A catalog is loaded and compiled once per App.
func (a *App) Registry(path string) (*engine.Registry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if reg, ok := a.registries[path]; ok {
		return reg, nil
	}

	descs, err := a.loader.LoadCatalog(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load catalog")
	}

	reg, err := a.builder.Build(descs)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to compile catalog"), "path", path)
	}

	a.registries[path] = reg
	a.logger.Debug(fmt.Sprintf("catalog %s compiled, fingerprint %s", path, reg.Fingerprint()))
	return reg, nil
}

// Evaluate resolves the requested targets within a fresh session.
// Async targets are dispatched to the executor up front and collected in target order.
func (a *App) Evaluate(ctx context.Context, opts EvalOptions) (*Evaluation, error) {
	if len(opts.Targets) == 0 {
		return nil, domain.ErrNoTargetsSpecified
	}

	reg, err := a.Registry(opts.CatalogPath)
	if err != nil {
		return nil, err
	}

	values := make(map[string]domain.Value)
	if opts.InputsPath != "" {
		loaded, err := a.loader.LoadInputs(opts.InputsPath)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to load inputs")
		}
		maps.Copy(values, loaded)
	}
	maps.Copy(values, opts.Inputs)

	for _, name := range slices.Sorted(maps.Keys(values)) {
		if _, ok := reg.Lookup(name); !ok {
			a.logger.Warn(fmt.Sprintf("input %q does not match any argument", name))
		}
	}

	session := engine.NewSession(reg, inputs.NewMapProvider(values),
		engine.WithExecutor(a.executor),
		engine.WithTelemetry(a.telemetry),
		engine.WithLogger(a.logger),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Async targets start together on the executor; the rest resolve in order.
	pending := make(map[string]<-chan expr.Result)
	for _, name := range opts.Targets {
		if arg, ok := reg.Lookup(name); ok && arg.Async() {
			if _, started := pending[name]; !started {
				pending[name] = session.ResolveAsync(ctx, name)
			}
		}
	}

	targets := make([]string, 0, len(opts.Targets))
	results := make(map[string]domain.Value, len(opts.Targets))
	for _, name := range opts.Targets {
		if _, done := results[name]; done {
			continue
		}

		var v domain.Value
		var err error
		if ch, ok := pending[name]; ok {
			res := <-ch
			v, err = res.Value, res.Err
		} else {
			v, err = session.Resolve(ctx, name)
		}
		if err != nil {
			return nil, zerr.With(zerr.With(zerr.Wrap(err, "evaluation failed"), "target", name), "session", session.ID())
		}
		targets = append(targets, name)
		results[name] = v
	}

	return &Evaluation{
		SessionID:   session.ID(),
		Fingerprint: reg.Fingerprint(),
		Targets:     targets,
		Values:      results,
	}, nil
}

// ArgumentInfo describes a registered argument.
type ArgumentInfo struct {
	Name         string   `yaml:"name"`
	Type         string   `yaml:"type"`
	Source       string   `yaml:"source"`
	Cacheable    bool     `yaml:"cacheable"`
	Async        bool     `yaml:"async"`
	Expression   string   `yaml:"expression,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty"`
}

// Inspection describes a compiled catalog.
type Inspection struct {
	Fingerprint string `yaml:"fingerprint"`
	// Arguments are listed in evaluation order, dependencies first. When the catalog
	// has a static cycle they are listed by name instead.
	Arguments []ArgumentInfo `yaml:"arguments"`
	// Cycle is the first static cycle found, if any.
	Cycle string `yaml:"cycle,omitempty"`
	// Functions are the functions expressions may call.
	Functions []string `yaml:"functions"`
}

// Inspect compiles the catalog at path and describes it.
func (a *App) Inspect(path string) (*Inspection, error) {
	reg, err := a.Registry(path)
	if err != nil {
		return nil, err
	}

	out := &Inspection{
		Fingerprint: reg.Fingerprint(),
		Functions:   expr.Builtins(),
	}

	order := reg.Names()
	g, err := reg.Graph()
	if err != nil {
		var zErr *zerr.Error
		if errors.As(err, &zErr) {
			if cycle, ok := zErr.Metadata()["cycle"].(string); ok {
				out.Cycle = cycle
			}
		}
		a.logger.Warn(fmt.Sprintf("catalog %s has a static cycle: %v", path, err))
	} else {
		order = make([]string, 0, reg.Len())
		for n := range g.Walk() {
			order = append(order, n.Name.String())
		}
	}

	for _, name := range order {
		arg, _ := reg.Lookup(name)
		info := ArgumentInfo{
			Name:         name,
			Type:         arg.Kind().String(),
			Source:       arg.Source().String(),
			Cacheable:    arg.Cacheable(),
			Async:        arg.Async(),
			Dependencies: arg.Dependencies(),
		}
		if e := arg.Expression(); e != nil {
			info.Expression = e.Source()
		}
		out.Arguments = append(out.Arguments, info)
	}
	return out, nil
}
