package settlement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
)

// FraudRules are the thresholds of the anti-fraud heuristics. A zero or negative threshold disables its rule.
type FraudRules struct {
	MaxClaims30d   int
	WarnClaims30d  int
	HighValueClaim api.Currency
	LateReportDays int
}

// DefaultFraudRules reads the thresholds from the environment
func DefaultFraudRules() FraudRules {
	return FraudRules{
		MaxClaims30d:   domain.Env.FraudMaxClaims30d,
		WarnClaims30d:  domain.Env.FraudWarnClaims30d,
		HighValueClaim: api.Currency(domain.Env.FraudHighValueClaim),
		LateReportDays: domain.Env.FraudLateReportDays,
	}
}

// Validator checks evidence and anti-fraud pre-conditions of a claim
type Validator struct {
	claims   ClaimStore
	bookings BookingStore
	rules    FraudRules
	now      func() time.Time
}

func NewValidator(claims ClaimStore, bookings BookingStore, rules FraudRules) *Validator {
	return &Validator{claims: claims, bookings: bookings, rules: rules, now: time.Now}
}

// ValidateInspections reports which of the check-in and check-out inspections are missing for a booking
func (v *Validator) ValidateInspections(ctx context.Context, bookingID uuid.UUID) (api.InspectionCheck, error) {
	inspections, err := v.bookings.FindInspections(ctx, bookingID)
	if err != nil {
		return api.InspectionCheck{}, err
	}

	check := api.InspectionCheck{Missing: []api.InspectionStage{}}
	for _, stage := range []api.InspectionStage{api.InspectionStageCheckIn, api.InspectionStageCheckOut} {
		if _, ok := latestInspection(inspections, stage); !ok {
			check.Missing = append(check.Missing, stage)
		}
	}
	check.Valid = len(check.Missing) == 0
	return check, nil
}

// CompareDamages suggests the damage items that appear at check-out but not at check-in, or whose severity
// increased. Estimates missing from the inspection are filled in from the cost table.
func (v *Validator) CompareDamages(ctx context.Context, bookingID uuid.UUID) (api.DamageItems, error) {
	inspections, err := v.bookings.FindInspections(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	suggested := api.DamageItems{}
	checkIn, okIn := latestInspection(inspections, api.InspectionStageCheckIn)
	checkOut, okOut := latestInspection(inspections, api.InspectionStageCheckOut)
	if !okIn || !okOut {
		return suggested, nil
	}

	before := map[string]api.DamageSeverity{}
	for _, d := range checkIn.Damages {
		k := damageKey(d)
		if d.Severity.Rank() > before[k].Rank() {
			before[k] = d.Severity
		}
	}

	for _, d := range checkOut.Damages {
		if prior, ok := before[damageKey(d)]; ok && d.Severity.Rank() <= prior.Rank() {
			continue
		}
		if d.EstimatedCost <= 0 {
			if estimate, err := EstimateDamageCost(d.Type, d.Severity); err == nil {
				d.EstimatedCost = estimate.Suggested
			}
		}
		suggested = append(suggested, d)
	}

	return suggested, nil
}

// ValidateClaimAntiFraud runs the anti-fraud heuristics for a claim about to be created. A blocked result
// must stop the claim; warnings are kept on the claim for manual review.
func (v *Validator) ValidateClaimAntiFraud(ctx context.Context, bookingID, reporterID uuid.UUID, total api.Currency) (api.FraudCheck, error) {
	now := v.now().UTC()
	check := api.FraudCheck{Warnings: []string{}}

	count, err := v.claims.CountClaimsByReporterSince(ctx, reporterID, now.Add(-domain.ClaimFrequencyWindow))
	if err != nil {
		return api.FraudCheck{}, err
	}
	check.OwnerClaims30d = count

	if v.rules.MaxClaims30d > 0 && count >= v.rules.MaxClaims30d {
		check.Blocked = true
		check.BlockReason = fmt.Sprintf("reporter filed %d claims in the last 30 days", count)
		return check, nil
	}

	open, err := v.claims.CountOpenClaimsForBooking(ctx, bookingID)
	if err != nil {
		return api.FraudCheck{}, err
	}
	if open > 0 {
		check.Blocked = true
		check.BlockReason = "a claim is already open for this booking"
		return check, nil
	}

	if v.rules.WarnClaims30d > 0 && count >= v.rules.WarnClaims30d {
		check.Warnings = append(check.Warnings, fmt.Sprintf("reporter filed %d claims in the last 30 days", count))
	}

	if v.rules.HighValueClaim > 0 && total >= v.rules.HighValueClaim {
		check.Warnings = append(check.Warnings, "high value claim: "+total.String())
	}

	if v.rules.LateReportDays > 0 {
		booking, found, err := v.bookings.FindBooking(ctx, bookingID)
		if err != nil {
			return api.FraudCheck{}, err
		}
		deadline := booking.EndsAt.Add(time.Duration(v.rules.LateReportDays) * domain.DurationDay)
		if found && now.After(deadline) {
			days := int(now.Sub(booking.EndsAt) / domain.DurationDay)
			check.Warnings = append(check.Warnings, fmt.Sprintf("reported %d days after the booking ended", days))
		}
	}

	return check, nil
}

type costBand struct {
	min, max api.Currency
}

// reference-currency cents
var damageCostTable = map[api.DamageType]map[api.DamageSeverity]costBand{
	api.DamageTypeBody: {
		api.DamageSeverityMinor:    {15000, 40000},
		api.DamageSeverityModerate: {40000, 120000},
		api.DamageSeveritySevere:   {120000, 400000},
	},
	api.DamageTypeGlass: {
		api.DamageSeverityMinor:    {8000, 20000},
		api.DamageSeverityModerate: {20000, 60000},
		api.DamageSeveritySevere:   {60000, 150000},
	},
	api.DamageTypeInterior: {
		api.DamageSeverityMinor:    {5000, 20000},
		api.DamageSeverityModerate: {20000, 70000},
		api.DamageSeveritySevere:   {70000, 200000},
	},
	api.DamageTypeMechanical: {
		api.DamageSeverityMinor:    {20000, 60000},
		api.DamageSeverityModerate: {60000, 250000},
		api.DamageSeveritySevere:   {250000, 800000},
	},
	api.DamageTypeTire: {
		api.DamageSeverityMinor:    {6000, 15000},
		api.DamageSeverityModerate: {15000, 40000},
		api.DamageSeveritySevere:   {40000, 90000},
	},
	api.DamageTypeTheft: {
		api.DamageSeverityMinor:    {50000, 150000},
		api.DamageSeverityModerate: {150000, 500000},
		api.DamageSeveritySevere:   {500000, 2000000},
	},
	api.DamageTypeOther: {
		api.DamageSeverityMinor:    {5000, 20000},
		api.DamageSeverityModerate: {20000, 80000},
		api.DamageSeveritySevere:   {80000, 300000},
	},
}

// EstimateDamageCost returns the suggested cost band for a damage type and severity
func EstimateDamageCost(damageType api.DamageType, severity api.DamageSeverity) (api.CostEstimate, error) {
	bands, ok := damageCostTable[damageType]
	if !ok {
		err := fmt.Errorf("unknown damage type %q", damageType)
		return api.CostEstimate{}, api.NewAppError(err, api.ErrorInvalidDamageType, api.CategoryUser)
	}
	band, ok := bands[severity]
	if !ok {
		err := fmt.Errorf("unknown damage severity %q", severity)
		return api.CostEstimate{}, api.NewAppError(err, api.ErrorInvalidDamageSeverity, api.CategoryUser)
	}

	return api.CostEstimate{
		Type:      damageType,
		Severity:  severity,
		Min:       band.min,
		Max:       band.max,
		Suggested: (band.min + band.max) / 2,
	}, nil
}

func validateDamageInputs(inputs []api.DamageItemInput) (api.DamageItems, error) {
	if len(inputs) == 0 {
		err := errors.New("a claim needs at least one damage item")
		return nil, api.NewAppError(err, api.ErrorClaimMissingDamages, api.CategoryUser)
	}

	items := make(api.DamageItems, len(inputs))
	var total api.Currency
	for i, in := range inputs {
		if _, err := EstimateDamageCost(in.Type, in.Severity); err != nil {
			return nil, err
		}
		if in.EstimatedCost < 0 {
			err := fmt.Errorf("damage item %d has a negative estimated cost", i+1)
			return nil, api.NewAppError(err, api.ErrorInvalidAmount, api.CategoryUser)
		}
		if in.EstimatedCost > api.MaxClaimAmount {
			err := fmt.Errorf("damage item %d exceeds the maximum claim amount of %s", i+1, api.MaxClaimAmount)
			return nil, api.NewAppError(err, api.ErrorInvalidAmount, api.CategoryUser)
		}
		// both operands are at most MaxClaimAmount here, so the sum cannot wrap
		total += in.EstimatedCost
		if total > api.MaxClaimAmount {
			err := fmt.Errorf("damage items total more than the maximum claim amount of %s", api.MaxClaimAmount)
			return nil, api.NewAppError(err, api.ErrorInvalidAmount, api.CategoryUser)
		}
		items[i] = api.DamageItem{
			Type:          in.Type,
			Severity:      in.Severity,
			Area:          in.Area,
			EstimatedCost: in.EstimatedCost,
			Description:   in.Description,
		}
	}
	return items, nil
}

func latestInspection(inspections []api.Inspection, stage api.InspectionStage) (api.Inspection, bool) {
	var matching []api.Inspection
	for _, in := range inspections {
		if in.Stage == stage {
			matching = append(matching, in)
		}
	}
	if len(matching) == 0 {
		return api.Inspection{}, false
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].InspectedAt.After(matching[j].InspectedAt)
	})
	return matching[0], true
}

func damageKey(d api.DamageItem) string {
	return string(d.Type) + "|" + d.Area
}
