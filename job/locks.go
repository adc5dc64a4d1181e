package job

import (
	"context"
	"time"

	"github.com/gobuffalo/buffalo/worker"

	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/log"
)

// releaseStaleLocksHandler releases expired settlement locks and schedules the next sweep
func releaseStaleLocksHandler(args worker.Args) error {
	defer resubmit(ReleaseStaleLocks, time.Duration(domain.Env.StaleLockSweepMinutes)*time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), domain.ExternalTimeout())
	defer cancel()

	n, err := releaseStaleLocks(ctx, services.Locks)
	if err != nil {
		return err
	}
	if n > 0 {
		log.WithFields(log.Fields{"released": n}).Warning("released stale claim settlement locks")
	}
	return nil
}

func releaseStaleLocks(ctx context.Context, releaser StaleLockReleaser) (int, error) {
	if releaser == nil {
		return 0, nil
	}
	return releaser.ReleaseStale(ctx, domain.ClaimLockTimeout())
}

func resubmit(jobType string, delay time.Duration) {
	if err := SubmitDelayed(jobType, delay, map[string]any{}); err != nil {
		log.Errorf("error resubmitting %s job, %s", jobType, err)
	}
}
