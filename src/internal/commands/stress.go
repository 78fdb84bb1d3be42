package commands

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maksimkurb/tracegate/src/internal/config"
	"github.com/maksimkurb/tracegate/src/internal/log"
	"github.com/maksimkurb/tracegate/src/internal/trace"
	"github.com/maksimkurb/tracegate/src/internal/verbosity"
)

// stressValues are the only verbosities stress writers ever set.
var stressValues = []int{1, 3, 5, 7}

// StressCommand runs concurrent writers and readers against one registry and
// checks that every read returns a value some write could have produced and
// that readers never observe the generation going backwards.
type StressCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	workers  int
	readers  int
	duration time.Duration
}

// StressResult summarizes a stress run.
type StressResult struct {
	Reads      uint64
	Writes     uint64
	Generation uint64
}

func CreateStressCommand() Runner {
	return &StressCommand{}
}

func (c *StressCommand) Name() string {
	return "stress"
}

func (c *StressCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs = flag.NewFlagSet("stress", flag.ContinueOnError)
	c.fs.IntVar(&c.workers, "workers", 4, "Number of writer goroutines")
	c.fs.IntVar(&c.readers, "readers", 8, "Number of reader goroutines")
	c.fs.DurationVar(&c.duration, "duration", 2*time.Second, "How long to run")

	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if c.workers < 1 || c.readers < 1 {
		return fmt.Errorf("workers and readers must be positive")
	}
	if c.duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	return nil
}

func (c *StressCommand) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.duration)
	defer cancel()

	reg := verbosity.New(c.cfg.RegistryOptions()...)
	tr := trace.New(trace.NewGate(reg), nil)

	log.Infof("Running %d writer(s) and %d reader(s) for %v", c.workers, c.readers, c.duration)

	res, err := RunStress(ctx, reg, tr, c.workers, c.readers)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.ctx.stdout(), "reads\t%d\nwrites\t%d\ngeneration\t%d\n", res.Reads, res.Writes, res.Generation)
	return nil
}

// RunStress runs writers and readers against reg until ctx is done. Writer i
// owns component "stress.w<i>" and only ever sets it to one of stressValues
// or clears it. Readers resolve names below those components.
func RunStress(ctx context.Context, reg *verbosity.Registry, tr *trace.Tracer, writers, readers int) (StressResult, error) {
	var reads, writes atomic.Uint64
	allowed := append([]int{reg.DefaultVerbosity()}, stressValues...)

	g, ctx := errgroup.WithContext(ctx)

	for w := 0; w < writers; w++ {
		name := fmt.Sprintf("stress.w%d", w)
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(uint64(len(name)), rand.Uint64()))
			for ctx.Err() == nil {
				if rng.IntN(4) == 0 {
					reg.Clear(name)
				} else {
					reg.Set(name, stressValues[rng.IntN(len(stressValues))])
				}
				writes.Add(1)
			}
			return nil
		})
	}

	for r := 0; r < readers; r++ {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
			var lastGen uint64
			for ctx.Err() == nil {
				name := fmt.Sprintf("stress.w%d.leaf%d", rng.IntN(writers), rng.IntN(8))

				gen := reg.Generation()
				if gen < lastGen {
					return fmt.Errorf("generation went backwards: %d after %d", gen, lastGen)
				}
				lastGen = gen

				v := reg.Get(name)
				if !slices.Contains(allowed, v) {
					return fmt.Errorf("%q resolved to %d, a value never written", name, v)
				}
				tr.Enabled(name, v)
				reads.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return StressResult{}, err
	}

	return StressResult{
		Reads:      reads.Load(),
		Writes:     writes.Load(),
		Generation: reg.Generation(),
	}, nil
}
