package commands

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maksimkurb/tracegate/src/internal/api"
	"github.com/maksimkurb/tracegate/src/internal/config"
	domainerrors "github.com/maksimkurb/tracegate/src/internal/errors"
	"github.com/maksimkurb/tracegate/src/internal/log"
	"github.com/maksimkurb/tracegate/src/internal/trace"
)

// ReloadComponent is the component the reload loop traces itself under.
const ReloadComponent = "tracegate.reload"

// ServeCommand runs the admin API and keeps the registry in sync with the
// configuration file.
type ServeCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	bindAddr       string
	reloadInterval int

	rt           *runtime
	configHasher *config.ConfigHasher
	self         *trace.Component
}

func CreateServeCommand() Runner {
	return &ServeCommand{}
}

func (c *ServeCommand) Name() string {
	return "serve"
}

func (c *ServeCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs = flag.NewFlagSet("serve", flag.ContinueOnError)
	c.fs.StringVar(&c.bindAddr, "bind", "", "Address to bind the admin API (overrides general.api_bind_address)")
	c.fs.IntVar(&c.reloadInterval, "reload-interval", -1, "Seconds between config file checks (overrides general.reload_interval_seconds)")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	// Flags win over the config file
	if c.bindAddr == "" {
		c.bindAddr = cfg.General.APIBindAddress
	}
	if c.reloadInterval < 0 {
		c.reloadInterval = cfg.General.ReloadIntervalSeconds
	}

	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	c.rt = rt
	c.self = rt.tracer.Component(ReloadComponent)

	if ctx.ConfigPath != "" {
		c.configHasher = config.NewConfigHasher(ctx.ConfigPath)
		hash, err := c.configHasher.CalculateHash(cfg)
		if err != nil {
			return err
		}
		c.configHasher.SetActiveConfigHash(hash)
	}

	return nil
}

func (c *ServeCommand) Run() error {
	defer c.rt.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.configHasher != nil {
		reloader := NewRestartableRunner(RunnerConfig{
			Name:   "config-reloader",
			Tracer: c.self,
		}, c.reloadLoop)
		if err := reloader.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := reloader.Stop(); err != nil {
				log.Errorf("Failed to stop config reloader: %v", err)
			}
		}()
	}

	if c.bindAddr == "" {
		log.Infof("Admin API disabled, waiting for a signal")
		<-ctx.Done()
		return nil
	}

	handler := api.NewHandler(c.rt.registry, c.rt.tracer, c.ctx.ConfigPath, c.configHasher)
	server := api.NewServer(c.bindAddr, handler)

	l, err := net.Listen("tcp", c.bindAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.bindAddr, err)
	}

	log.Infof("Access restricted to private subnets only:")
	log.Infof("  IPv4: 10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16, 127.0.0.0/8")
	log.Infof("  IPv6: fc00::/7, fe80::/10, ::1/128")

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Serve(l)
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case <-ctx.Done():
		log.Infof("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return <-serverErrors
	}
}

// reloadLoop re-applies the configuration on SIGHUP and, when an interval is
// set, whenever the file hash changes.
func (c *ServeCommand) reloadLoop(ctx context.Context) error {
	hup := make(chan os.Signal, 1)
	notifyReload(hup)
	defer signal.Stop(hup)

	var tick <-chan time.Time
	if c.reloadInterval > 0 {
		ticker := time.NewTicker(time.Duration(c.reloadInterval) * time.Second)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
			log.Infof("Received SIGHUP, reloading configuration")
			c.logReload(c.reload(true))
		case <-tick:
			c.logReload(c.reload(false))
		}
	}
}

func (c *ServeCommand) logReload(reloaded bool, err error) {
	if err != nil {
		log.Errorf("Configuration reload failed, keeping current state: %v", err)
		return
	}
	if reloaded {
		log.Infof("Configuration reloaded (generation %d)", c.rt.registry.Generation())
	}
}

// reload applies the configuration file to the live registry. Unless force
// is set, nothing happens when the file hash matches the applied one. An
// invalid file leaves the registry untouched. The reloaded default_verbosity
// is also what Reset and Clear("") restore from then on.
func (c *ServeCommand) reload(force bool) (bool, error) {
	hash, err := c.configHasher.UpdateCurrentConfigHash()
	if err != nil {
		return false, domainerrors.NewReloadError("failed to hash configuration", err)
	}
	if !force && hash == c.configHasher.GetActiveConfigHash() {
		c.self.Printf(5, "configuration unchanged (%s)", hash)
		return false, nil
	}

	cfg, err := loadAndValidateConfigOrFail(c.ctx.ConfigPath)
	if err != nil {
		return false, domainerrors.NewReloadError("invalid configuration", err)
	}

	if cfg.Trace.MaxLevel != c.cfg.Trace.MaxLevel || cfg.Trace.Color != c.cfg.Trace.Color || cfg.Trace.CacheLimit != c.cfg.Trace.CacheLimit {
		log.Warnf("trace.max_level, trace.color and trace.cache_limit changes take effect after a restart")
	}
	if err := c.rt.switchOutput(cfg.TraceOutput()); err != nil {
		return false, domainerrors.NewReloadError("failed to open trace output", err)
	}

	cfg.Apply(c.rt.registry, c.rt.env...)
	c.configHasher.SetActiveConfigHash(hash)
	c.cfg = cfg
	c.self.Printf(1, "applied configuration %s: default %d, %d override(s)", hash, cfg.Trace.DefaultVerbosity, len(cfg.Components))

	return true, nil
}
