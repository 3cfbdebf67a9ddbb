package provisioning

import (
	"fmt"
	"time"
)

// Pipeline runs phases in order, stopping at the first failure.
type Pipeline struct {
	Phases []Phase
}

// NewPipeline creates a pipeline of the given phases.
func NewPipeline(phases ...Phase) *Pipeline {
	return &Pipeline{Phases: phases}
}

// Run executes every phase sequentially, reporting progress and timing.
func (p *Pipeline) Run(ctx *Context) error {
	start := time.Now()
	total := len(p.Phases)
	ctx.Observer.Printf("Starting provisioning with %d phases...", total)

	for i, phase := range p.Phases {
		phaseStart := time.Now()
		LogPhaseStart(ctx.Observer, phase.Name())

		err := phase.Provision(ctx)
		elapsed := time.Since(phaseStart)
		ctx.Metrics.ObservePhase(phase.Name(), elapsed)
		if err != nil {
			LogPhaseFailed(ctx.Observer, phase.Name(), err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		LogPhaseComplete(ctx.Observer, phase.Name(), elapsed)
		ctx.Observer.Progress("pipeline", i+1, total)
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

// RunPhases executes all provisioning phases sequentially.
func RunPhases(ctx *Context, phases []Phase) error {
	return NewPipeline(phases...).Run(ctx)
}
