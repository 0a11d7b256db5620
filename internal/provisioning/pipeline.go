package provisioning

import (
	"fmt"
	"time"
)

// RunPhases executes all provisioning phases sequentially and stops at the
// first failure.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Log.Info("starting provisioning", "topology", ctx.Topology.Name, "phases", len(phases))

	for i, phase := range phases {
		phaseStart := time.Now()
		log := ctx.Log.WithValues("phase", phase.Name(), "step", fmt.Sprintf("%d/%d", i+1, len(phases)))
		log.Info("phase started")

		err := phase.Provision(ctx)
		ctx.Metrics.phaseDone(phase.Name(), time.Since(phaseStart), err)
		ctx.Metrics.setRunState(ctx.State.Phase)
		if err != nil {
			ctx.State.Failed = phase.Name()
			log.Error(err, "phase failed")
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		log.Info("phase completed", "duration", time.Since(phaseStart).Round(time.Millisecond), "state", ctx.State.Phase.String())
	}

	ctx.Log.Info("provisioning completed", "duration", time.Since(start).Round(time.Millisecond))
	return nil
}
