package policy

import (
	"github.com/aristath/advisor-engine/internal/events"
	"github.com/aristath/advisor-engine/internal/metrics"
	"github.com/rs/zerolog"
)

// ReloadJob checks the policy file for content changes and swaps in a new
// snapshot when needed. Registered on the cron scheduler.
type ReloadJob struct {
	store   *Store
	events  *events.Manager
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewReloadJob creates a new policy reload job.
func NewReloadJob(store *Store, ev *events.Manager, m *metrics.Metrics, log zerolog.Logger) *ReloadJob {
	return &ReloadJob{
		store:   store,
		events:  ev,
		metrics: m,
		log:     log.With().Str("job", "policy_reload").Logger(),
	}
}

// Name implements the scheduler Job interface.
func (j *ReloadJob) Name() string {
	return "policy_reload"
}

// Run implements the scheduler Job interface.
func (j *ReloadJob) Run() error {
	swapped, err := j.store.Reload()
	if err != nil {
		// Keep serving the previous snapshot; surface the rejection.
		j.events.Emit(events.PolicyReloadRejected, "policy", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	if swapped {
		j.metrics.PolicyReloadsTotal.Inc()
		j.events.Emit(events.PolicyReloaded, "policy", map[string]interface{}{
			"hash": j.store.Current().Hash(),
		})
	}

	return nil
}
