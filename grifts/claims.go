package grifts

import (
	"context"
	"fmt"

	"github.com/gobuffalo/grift/grift"

	"github.com/silinternational/claims-settlement-api/actions"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/models"
)

var _ = grift.Namespace("claims", func() {
	grift.Desc("release_stale_locks", "Returns claims stuck in processing past the lock timeout to approved")
	_ = grift.Add("release_stale_locks", func(c *grift.Context) error {
		svc := actions.SettlementService()
		n, err := svc.Locks().ReleaseStale(context.Background(), domain.ClaimLockTimeout())
		if err != nil {
			return err
		}
		fmt.Printf("released %d stale settlement lock(s)\n", n)
		return nil
	})

	grift.Desc("reconciliation", "Retries the guarantee fund ledger entry of paid claims that need reconciliation")
	_ = grift.Add("reconciliation", func(c *grift.Context) error {
		ctx := context.Background()

		pending, err := models.NewStore(models.DB).FindClaimsNeedingReconciliation(ctx)
		if err != nil {
			return err
		}
		for _, claim := range pending {
			fmt.Printf("claim %s needs reconciliation\n", claim.ID)
		}

		n, err := actions.SettlementService().ReconcileFundPayouts(ctx)
		fmt.Printf("reconciled %d of %d claim(s)\n", n, len(pending))
		return err
	})
})
