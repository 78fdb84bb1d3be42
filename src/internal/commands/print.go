package commands

import (
	"flag"

	"github.com/maksimkurb/tracegate/src/internal/config"
)

// PrintCommand prints the verbosity listing produced by the configuration
// and the environment.
type PrintCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	asConfig bool
}

func CreatePrintCommand() Runner {
	return &PrintCommand{}
}

func (c *PrintCommand) Name() string {
	return "print"
}

func (c *PrintCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs = flag.NewFlagSet("print", flag.ContinueOnError)
	c.fs.BoolVar(&c.asConfig, "config", false, "Print the effective configuration file instead of the listing")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	return nil
}

func (c *PrintCommand) Run() error {
	if c.asConfig {
		buf, err := c.cfg.SerializeConfig()
		if err != nil {
			return err
		}
		_, err = c.ctx.stdout().Write(buf.Bytes())
		return err
	}

	rt, err := newRuntime(c.cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	return rt.registry.Print(c.ctx.stdout())
}
