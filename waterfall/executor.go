package waterfall

import (
	"context"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/log"
)

type executor struct {
	engine *Engine
}

func (x executor) captureHold(ctx context.Context, req Request, amount api.Currency) api.Currency {
	l := stepLogger(req, "card_capture", amount)
	if x.engine.card == nil {
		l.Warning("no card capturer configured")
		return 0
	}

	res, err := x.engine.card.CaptureAuthorization(ctx, api.CaptureRequest{
		AuthorizationID: req.Snapshot.AuthorizationID,
		ClaimID:         req.ClaimID,
		Amount:          api.SettlementToReference(amount, req.Snapshot.FxRate),
		IdempotencyKey:  idempotencyKey(req, "capture"),
	})
	if err != nil {
		l.Errorf("card capture failed, shortfall moves to the next source: %s", err)
		return 0
	}
	if !res.OK {
		l.Warningf("card capture declined, shortfall moves to the next source: %s", res.Error)
		return 0
	}

	return amount
}

func (x executor) debitWallet(ctx context.Context, req Request, amount api.Currency) api.Currency {
	l := stepLogger(req, "wallet_debit", amount)
	if x.engine.wallet == nil {
		l.Warning("no wallet debiter configured")
		return 0
	}

	ref := api.SettlementToReference(amount, req.Snapshot.FxRate)
	res, err := x.engine.wallet.DebitForDamage(ctx, api.WalletDebitRequest{
		BookingID: req.BookingID,
		ClaimID:   req.ClaimID,
		Amount:    ref,
	})
	if err != nil {
		l.Errorf("wallet debit failed, shortfall moves to the next source: %s", err)
		return 0
	}
	if !res.Success {
		l.Warningf("wallet debit declined or partial: %s", res.Error)
	}

	if !res.DebitedAmount.IsPositive() {
		return 0
	}

	// a full debit counts as the whole step so rounding at the boundary never leaves a stray cent
	if res.DebitedAmount.GreaterThanOrEqual(ref) {
		return amount
	}

	debited, err := api.ReferenceDecimalToSettlement(res.DebitedAmount, req.Snapshot.FxRate)
	if err != nil {
		l.Errorf("wallet debit of %s cannot be converted, treating as the full step: %s", res.DebitedAmount, err)
		return amount
	}
	return debited
}

func (x executor) payFund(ctx context.Context, req Request, amount api.Currency) bool {
	l := stepLogger(req, "guarantee_fund", amount)
	if x.engine.fund == nil {
		l.Error("no guarantee fund configured, payout needs reconciliation")
		return false
	}

	err := x.engine.fund.RecordPayout(ctx, api.FundPayout{
		ClaimID:          req.ClaimID,
		BookingID:        req.BookingID,
		Amount:           api.SettlementToReference(amount, req.Snapshot.FxRate),
		SettlementAmount: amount,
		FxRate:           req.Snapshot.FxRate,
	})
	if err != nil {
		l.Errorf("guarantee fund payout could not be recorded, claim needs reconciliation: %s", err)
		return false
	}

	return true
}

func idempotencyKey(req Request, step string) string {
	return "claim-" + req.ClaimID.String() + "-" + step
}

func stepLogger(req Request, step string, amount api.Currency) *log.Entry {
	return log.WithFields(log.Fields{
		"claim_id":   req.ClaimID.String(),
		"booking_id": req.BookingID.String(),
		"step":       step,
		"amount":     amount.String(),
	})
}
