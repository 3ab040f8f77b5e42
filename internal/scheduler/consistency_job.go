package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper corrects snapshot drift for one date.
type Sweeper interface {
	ConsistencySweep(ctx context.Context, date time.Time) (int, error)
}

// ConsistencySweepJob runs the consistency sweep for the previous UTC day.
type ConsistencySweepJob struct {
	sweeper Sweeper
	log     zerolog.Logger
	now     func() time.Time
}

// NewConsistencySweepJob creates the nightly consistency job.
func NewConsistencySweepJob(sweeper Sweeper, log zerolog.Logger) *ConsistencySweepJob {
	return &ConsistencySweepJob{
		sweeper: sweeper,
		log:     log.With().Str("job", "consistency_sweep").Logger(),
		now:     time.Now,
	}
}

// Name returns the job name.
func (j *ConsistencySweepJob) Name() string {
	return "consistency_sweep"
}

// Run sweeps yesterday's snapshots.
func (j *ConsistencySweepJob) Run(ctx context.Context) error {
	date := j.now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -1)

	corrected, err := j.sweeper.ConsistencySweep(ctx, date)
	if err != nil {
		return err
	}

	if corrected > 0 {
		j.log.Warn().
			Str("date", date.Format("2006-01-02")).
			Int("corrected", corrected).
			Msg("Drifted snapshots corrected")
	}
	return nil
}
