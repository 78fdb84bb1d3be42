package commands

import (
	"errors"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/maksimkurb/tracegate/src/internal/config"
	"github.com/maksimkurb/tracegate/src/internal/verbosity"
)

// CheckCommand shows the effective verbosity of components and whether an
// event at the given level would pass the gate.
type CheckCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	level   int
	message string
	names   []string
}

func CreateCheckCommand() Runner {
	return &CheckCommand{}
}

func (c *CheckCommand) Name() string {
	return "check"
}

func (c *CheckCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs = flag.NewFlagSet("check", flag.ContinueOnError)
	c.fs.IntVar(&c.level, "level", 0, "Requested event level")
	c.fs.StringVar(&c.message, "message", "", "Also emit this message through the tracer for every approved component")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	c.names = c.fs.Args()
	if len(c.names) == 0 {
		return errors.New("at least one component name is required")
	}
	for _, name := range c.names {
		if !config.IsValidComponentName(name) {
			return fmt.Errorf("invalid component name %q", name)
		}
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	return nil
}

func (c *CheckCommand) Run() error {
	rt, err := newRuntime(c.cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	yes := color.New(color.FgGreen).Sprint("yes")
	no := color.New(color.FgRed).Sprint("no")

	tw := tabwriter.NewWriter(c.ctx.stdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "COMPONENT\tEXPLICIT\tEFFECTIVE\tLEVEL\tEMIT\n")

	for _, name := range c.names {
		effective, explicit := rt.registry.Lookup(name)
		enabled := rt.tracer.Enabled(name, c.level)

		display := name
		if display == "" {
			display = verbosity.GlobalLabel
		}
		mark := no
		if enabled {
			mark = yes
		}
		fmt.Fprintf(tw, "%s\t%t\t%d\t%d\t%s\n", display, explicit, effective, c.level, mark)

		if c.message != "" {
			rt.tracer.Printf(name, c.level, "%s", c.message)
		}
	}

	return tw.Flush()
}
