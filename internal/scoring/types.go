// Package scoring turns checklist responses into a compliance percentage and
// a risk tier.
//
// The banding is data, not code: a Table holds ordered lower bounds and the
// static copy for each tier, so the observed variants (60/90 and 50/80) are
// two configuration instances of the same classifier.
package scoring

import (
	"fmt"
	"strings"
)

// --- Response value enum ---

// ResponseValue is the compliance state recorded for one item.
type ResponseValue string

const (
	Unanswered   ResponseValue = "unanswered"
	Compliant    ResponseValue = "compliant"
	NonCompliant ResponseValue = "non_compliant"
)

// Answered reports whether v counts toward the answered total.
func (v ResponseValue) Answered() bool {
	return v == Compliant || v == NonCompliant
}

// Writable reports whether v may be passed to SetResponse.
// Unanswered is only ever the implicit default.
func (v ResponseValue) Writable() bool {
	return v == Compliant || v == NonCompliant
}

// responseAliases maps accepted user spellings to values. Both the tri-state
// (Sí/No) and checkbox (checked/unchecked) front ends feed through here.
var responseAliases = map[string]ResponseValue{
	"compliant":     Compliant,
	"yes":           Compliant,
	"si":            Compliant,
	"sí":            Compliant,
	"1":             Compliant,
	"true":          Compliant,
	"checked":       Compliant,
	"non_compliant": NonCompliant,
	"noncompliant":  NonCompliant,
	"no":            NonCompliant,
	"0":             NonCompliant,
	"false":         NonCompliant,
	"unchecked":     NonCompliant,
	"unanswered":    Unanswered,
	"":              Unanswered,
}

// ParseResponse converts user input into a ResponseValue.
func ParseResponse(s string) (ResponseValue, error) {
	v, ok := responseAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("invalid response %q: must be one of: yes, no, compliant, non_compliant", s)
	}
	return v, nil
}

// --- Tier enum ---

// Tier is the risk classification bucket.
type Tier string

const (
	Unfit       Tier = "unfit"
	Conditional Tier = "conditional"
	Fit         Tier = "fit"
)

// tierRank orders tiers from worst to best.
var tierRank = map[Tier]int{
	Unfit:       0,
	Conditional: 1,
	Fit:         2,
}

// Rank returns the ordinal of t (Unfit=0 .. Fit=2), or -1 for unknown tiers.
func (t Tier) Rank() int {
	r, ok := tierRank[t]
	if !ok {
		return -1
	}
	return r
}

// ValidateTier returns an error if the tier is not recognized.
func ValidateTier(t Tier) error {
	if _, ok := tierRank[t]; !ok {
		return fmt.Errorf("invalid tier %q: must be one of: unfit, conditional, fit", t)
	}
	return nil
}

// TierCopy is the static guidance text attached to a tier.
type TierCopy struct {
	Label   string `json:"label" mapstructure:"label"`
	Heading string `json:"heading" mapstructure:"heading"`
	Detail  string `json:"detail" mapstructure:"detail"`
}

// Percentage returns 100*compliant/total. The denominator is always the full
// item count, so unanswered items score as non-compliant.
func Percentage(compliant, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(compliant) / float64(total)
}
