package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/maksimkurb/tracegate/src/internal/config"
	"github.com/maksimkurb/tracegate/src/internal/emit"
	"github.com/maksimkurb/tracegate/src/internal/log"
	"github.com/maksimkurb/tracegate/src/internal/trace"
	"github.com/maksimkurb/tracegate/src/internal/utils"
	"github.com/maksimkurb/tracegate/src/internal/verbosity"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	// ConfigPath is the configuration file; empty runs on defaults.
	ConfigPath string
	Verbose    bool
	// Stdout receives command output; nil means os.Stdout.
	Stdout io.Writer
}

func (ctx *AppContext) stdout() io.Writer {
	if ctx.Stdout == nil {
		return os.Stdout
	}
	return ctx.Stdout
}

// loadAndValidateConfigOrFail loads configuration from file and validates it.
// An empty path yields the default configuration.
func loadAndValidateConfigOrFail(configPath string) (*config.Config, error) {
	if configPath == "" {
		log.Debugf("No configuration file given, using defaults")
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// runtime is the registry, tracer and output stream built from a config.
type runtime struct {
	registry *verbosity.Registry
	tracer   *trace.Tracer
	stream   *emit.Stream
	env      []verbosity.Override
	output   string
}

// newRuntime builds a registry from cfg plus the TRACEGATE_VERBOSITY
// overrides and a tracer writing to the configured output.
func newRuntime(cfg *config.Config) (*runtime, error) {
	env, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if len(env) > 0 {
		log.Debugf("Applying %d override(s) from %s", len(env), config.EnvVerbosity)
	}

	reg := verbosity.New(cfg.RegistryOptions()...)
	cfg.Apply(reg, env...)

	output := cfg.TraceOutput()
	out, err := emit.OpenDestination(output)
	if err != nil {
		return nil, err
	}
	stream := emit.NewStream(out)

	tracer := trace.New(trace.NewGate(reg), stream,
		trace.WithMaxLevel(cfg.Trace.MaxLevel),
		trace.WithPrefix(cfg.Trace.UseColor(out)),
	)

	return &runtime{
		registry: reg,
		tracer:   tracer,
		stream:   stream,
		env:      env,
		output:   output,
	}, nil
}

// switchOutput points the stream at a new destination when output changed.
func (rt *runtime) switchOutput(output string) error {
	if output == rt.output {
		return nil
	}
	out, err := emit.OpenDestination(output)
	if err != nil {
		return err
	}
	prev := rt.stream.SetDestination(out)
	rt.output = output
	closeDestination(prev)
	return nil
}

func (rt *runtime) close() {
	closeDestination(rt.stream.SetDestination(io.Discard))
}

func closeDestination(w io.Writer) {
	if c, ok := w.(io.Closer); ok {
		utils.CloseOrWarn(c, "trace output")
	}
}
