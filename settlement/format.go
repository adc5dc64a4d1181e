package settlement

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/silinternational/claims-settlement-api/api"
)

// FormatBreakdown renders a breakdown for display, one line per funding source that contributed
func FormatBreakdown(b api.WaterfallBreakdown, currency string) string {
	lines := []string{"Total claim: " + FormatAmount(b.TotalClaimAmount, currency)}

	parts := []struct {
		label  string
		amount api.Currency
	}{
		{"Card hold captured", b.HoldCaptured},
		{"Wallet debited", b.WalletDebited},
		{"Extra charged", b.ExtraCharged},
		{"Guarantee fund", b.FundPaid},
		{"Uncovered", b.RemainingUncovered},
	}
	for _, p := range parts {
		if p.amount != 0 {
			lines = append(lines, p.label+": "+FormatAmount(p.amount, currency))
		}
	}

	return strings.Join(lines, "\n")
}

// FormatAmount renders cents with thousands separators, prefixed by the currency code when one is given
func FormatAmount(c api.Currency, currency string) string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := fmt.Sprintf("%s%s.%02d", sign, humanize.Comma(v/100), v%100)
	if currency == "" {
		return s
	}
	return currency + " " + s
}
