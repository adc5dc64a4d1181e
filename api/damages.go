package api

type DamageType string

const (
	DamageTypeBody       = DamageType("body")
	DamageTypeGlass      = DamageType("glass")
	DamageTypeInterior   = DamageType("interior")
	DamageTypeMechanical = DamageType("mechanical")
	DamageTypeTire       = DamageType("tire")
	DamageTypeTheft      = DamageType("theft")
	DamageTypeOther      = DamageType("other")
)

type DamageSeverity string

const (
	DamageSeverityMinor    = DamageSeverity("minor")
	DamageSeverityModerate = DamageSeverity("moderate")
	DamageSeveritySevere   = DamageSeverity("severe")
)

// Rank orders severities so that an increase can be detected. Unknown severities rank 0.
func (s DamageSeverity) Rank() int {
	switch s {
	case DamageSeverityMinor:
		return 1
	case DamageSeverityModerate:
		return 2
	case DamageSeveritySevere:
		return 3
	}
	return 0
}

// swagger:model
type DamageItems []DamageItem

// swagger:model
type DamageItem struct {
	Type     DamageType     `json:"type"`
	Severity DamageSeverity `json:"severity"`

	// location on the vehicle, e.g. "front bumper"
	Area string `json:"area"`

	// reference-currency cents
	EstimatedCost Currency `json:"estimated_cost"`

	Description string `json:"description"`
}

// Total sums the estimated cost of all items
func (d DamageItems) Total() Currency {
	var total Currency
	for _, item := range d {
		total += item.EstimatedCost
	}
	return total
}

// swagger:model
type DamageItemInput struct {
	Type          DamageType     `json:"type"`
	Severity      DamageSeverity `json:"severity"`
	Area          string         `json:"area"`
	EstimatedCost Currency       `json:"estimated_cost"`
	Description   string         `json:"description"`
}

// CostEstimate is a suggested cost band for a damage type and severity, in reference-currency cents
//
// swagger:model
type CostEstimate struct {
	Type      DamageType     `json:"type"`
	Severity  DamageSeverity `json:"severity"`
	Min       Currency       `json:"min"`
	Max       Currency       `json:"max"`
	Suggested Currency       `json:"suggested"`
}

// FraudCheck is the outcome of the anti-fraud heuristics run before a claim is created
//
// swagger:model
type FraudCheck struct {
	Blocked        bool     `json:"blocked"`
	BlockReason    string   `json:"block_reason,omitempty"`
	Warnings       []string `json:"warnings"`
	OwnerClaims30d int      `json:"owner_claims_30d"`
}
