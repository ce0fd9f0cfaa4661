package provisioning

import (
	"fmt"
	"time"
)

// RunPhases executes all provisioning phases sequentially. Cancellation
// is checked between phases so an interrupted deploy stops issuing new
// steps instead of starting the next phase.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting provisioning with %d phases...", len(phases))

	for i, phase := range phases {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("provisioning cancelled before %s phase: %w", phase.Name(), err)
		}

		phaseStart := time.Now()
		ctx.Observer.Event(Event{
			Type:      EventPhaseStarted,
			Phase:     phase.Name(),
			Message:   fmt.Sprintf("starting (%d/%d)", i+1, len(phases)),
			Timestamp: phaseStart,
		})

		if err := phase.Provision(ctx); err != nil {
			ctx.Observer.Event(Event{Type: EventPhaseFailed, Phase: phase.Name(), Message: err.Error(), Timestamp: time.Now()})
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		ctx.Observer.Event(Event{
			Type:      EventPhaseCompleted,
			Phase:     phase.Name(),
			Message:   fmt.Sprintf("completed in %v", time.Since(phaseStart).Round(time.Millisecond)),
			Timestamp: time.Now(),
		})
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
