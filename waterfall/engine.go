// Package waterfall splits a claim amount across funding sources in a fixed priority order: card hold,
// then wallet security deposit, then the guarantee fund. Execution and simulation share one allocation
// routine so a simulated breakdown is exactly what execution would produce if every external call succeeded.
package waterfall

import (
	"context"
	"errors"

	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/log"
)

var (
	ErrNegativeAmount = errors.New("waterfall: claim amount must not be negative")
	ErrInvalidFxRate  = errors.New("waterfall: fx rate must be positive")
)

// CardCapturer captures part of an existing card authorization
type CardCapturer interface {
	CaptureAuthorization(ctx context.Context, req api.CaptureRequest) (api.CaptureResult, error)
}

// WalletDebiter debits a renter's security deposit
type WalletDebiter interface {
	DebitForDamage(ctx context.Context, req api.WalletDebitRequest) (api.WalletDebitResult, error)
}

// GuaranteeFund appends a payout to the guarantee-fund ledger
type GuaranteeFund interface {
	RecordPayout(ctx context.Context, payout api.FundPayout) error
}

// Request is one claim amount to allocate
type Request struct {
	ClaimID   uuid.UUID
	BookingID uuid.UUID

	// settlement-currency cents
	Amount api.Currency

	Snapshot api.RiskSnapshot

	// from the eligibility assessment, only used for monitoring
	MaxCoverage api.Currency
}

// Result is the outcome of an executed waterfall
type Result struct {
	Breakdown api.WaterfallBreakdown

	// the fund covered its share but the ledger append failed
	ReconciliationRequired bool
}

// Engine executes waterfalls against the real funding sources
type Engine struct {
	card   CardCapturer
	wallet WalletDebiter
	fund   GuaranteeFund
}

func NewEngine(card CardCapturer, wallet WalletDebiter, fund GuaranteeFund) *Engine {
	return &Engine{card: card, wallet: wallet, fund: fund}
}

// Execute runs the waterfall, calling each funding source in turn. A failed card capture or wallet debit
// counts as zero and the shortfall moves on to the next source. A failed fund recording is reported through
// Result.ReconciliationRequired, never as an error.
func (e *Engine) Execute(ctx context.Context, req Request) (Result, error) {
	if req.Amount < 0 {
		return Result{}, ErrNegativeAmount
	}
	if !req.Snapshot.FxRate.IsPositive() {
		return Result{}, ErrInvalidFxRate
	}

	res := allocate(ctx, req, executor{engine: e})

	if res.Breakdown.FundPaid > req.MaxCoverage {
		log.WithFields(log.Fields{
			"claim_id":     req.ClaimID.String(),
			"fund_paid":    res.Breakdown.FundPaid.String(),
			"max_coverage": req.MaxCoverage.String(),
		}).Warning("guarantee fund payout exceeds the assessed maximum coverage")
	}

	return res, nil
}

// Simulate runs the same allocation as Execute without touching any funding source
func Simulate(req Request) (api.WaterfallBreakdown, error) {
	if req.Amount < 0 {
		return api.WaterfallBreakdown{}, ErrNegativeAmount
	}
	if !req.Snapshot.FxRate.IsPositive() {
		return api.WaterfallBreakdown{}, ErrInvalidFxRate
	}
	return allocate(context.Background(), req, simulation{}).Breakdown, nil
}

// funding performs the side effect of each step and reports how much actually moved
type funding interface {
	captureHold(ctx context.Context, req Request, amount api.Currency) api.Currency
	debitWallet(ctx context.Context, req Request, amount api.Currency) api.Currency
	payFund(ctx context.Context, req Request, amount api.Currency) bool
}

func allocate(ctx context.Context, req Request, f funding) Result {
	snap := req.Snapshot
	b := api.WaterfallBreakdown{TotalClaimAmount: req.Amount}
	remaining := req.Amount

	// card and wallet are mutually exclusive primary sources
	if snap.HasCard {
		step := min(remaining, max(snap.EstimatedHoldAmount, 0))
		if step > 0 && snap.AuthorizationID != "" && transferable(req, step) {
			b.HoldCaptured = clamp(f.captureHold(ctx, req, step), step)
		}
		remaining -= b.HoldCaptured
	} else if snap.HasWalletSecurity && snap.EstimatedDeposit > 0 {
		step := min(remaining, snap.EstimatedDeposit)
		if step > 0 && transferable(req, step) {
			b.WalletDebited = clamp(f.debitWallet(ctx, req, step), step)
		}
		remaining -= b.WalletDebited
	}

	var res Result
	if remaining > 0 {
		b.FundPaid = remaining
		remaining = 0
		res.ReconciliationRequired = !f.payFund(ctx, req, b.FundPaid)
	}

	b.RemainingUncovered = remaining
	res.Breakdown = b
	return res
}

// transferable reports whether amount is at least one cent once converted to the reference currency that
// card captures and wallet debits are made in. A step that rounds to zero is left to the fund.
func transferable(req Request, amount api.Currency) bool {
	return api.SettlementToReference(amount, req.Snapshot.FxRate).IsPositive()
}

func clamp(moved, limit api.Currency) api.Currency {
	return max(0, min(moved, limit))
}

type simulation struct{}

func (simulation) captureHold(_ context.Context, _ Request, amount api.Currency) api.Currency {
	return amount
}

func (simulation) debitWallet(_ context.Context, _ Request, amount api.Currency) api.Currency {
	return amount
}

func (simulation) payFund(_ context.Context, _ Request, _ api.Currency) bool {
	return true
}
