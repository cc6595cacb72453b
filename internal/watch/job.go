package watch

import "context"

// Job adapts the evaluator to the background scheduler
type Job struct {
	ev *Evaluator
}

// NewJob creates a scheduler job around an evaluator
func NewJob(ev *Evaluator) *Job {
	return &Job{ev: ev}
}

// Name returns the job name for scheduler logging
func (j *Job) Name() string {
	return "watchlist-check"
}

// Run executes one evaluation pass
func (j *Job) Run() error {
	results := j.ev.Run(context.Background())

	triggered := 0
	unavailable := 0
	for _, r := range results {
		if r.Triggered {
			triggered++
		}
		if !r.PriceKnown {
			unavailable++
		}
	}

	j.ev.log.Info().
		Int("items", len(results)).
		Int("alerts", triggered).
		Int("unavailable", unavailable).
		Msg("Evaluation pass finished")
	return nil
}
