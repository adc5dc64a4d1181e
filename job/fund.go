package job

import (
	"context"
	"time"

	"github.com/gobuffalo/buffalo/worker"

	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/log"
)

// reconcileFundPayoutsHandler retries pending guarantee-fund ledger entries and schedules the next run
func reconcileFundPayoutsHandler(args worker.Args) error {
	defer resubmit(ReconcileFundPayouts, time.Duration(domain.Env.FundReconcileMinutes)*time.Minute)

	if services.Fund == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), domain.ExternalTimeout())
	defer cancel()

	n, err := services.Fund.ReconcileFundPayouts(ctx)
	if n > 0 {
		log.WithFields(log.Fields{"reconciled": n}).Info("reconciled guarantee fund payouts")
	}
	return err
}
