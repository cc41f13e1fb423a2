package scoring

import (
	"fmt"
	"strings"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/errs"
)

// Band is one row of the threshold table. A band covers
// [LowerBound, next band's LowerBound); the last band covers [LowerBound, 100].
type Band struct {
	LowerBound float64 `json:"lower_bound" mapstructure:"lower_bound"`
	Tier       Tier    `json:"tier" mapstructure:"tier"`
}

// Table is an ordered, validated threshold table plus the copy for each tier.
type Table struct {
	bands []Band
	copy  map[Tier]TierCopy
}

// NewTable validates bands and copy and returns a Table.
//
// Rules:
//   - at least one band
//   - the first band starts at 0
//   - lower bounds lie in [0, 100] and strictly ascend
//   - tiers are known, unique, and ascend from worst to best
//   - every tier in a band has non-empty copy
func NewTable(bands []Band, copies map[Tier]TierCopy) (*Table, error) {
	if len(bands) == 0 {
		return nil, errs.Configuration("threshold table has no bands")
	}
	if bands[0].LowerBound != 0 {
		return nil, errs.Configuration("first band must start at 0, got %g", bands[0].LowerBound)
	}

	t := &Table{
		bands: make([]Band, len(bands)),
		copy:  make(map[Tier]TierCopy, len(bands)),
	}
	for i, b := range bands {
		if err := ValidateTier(b.Tier); err != nil {
			return nil, errs.WrapConfiguration(err, fmt.Sprintf("band %d", i+1))
		}
		if b.LowerBound < 0 || b.LowerBound > 100 {
			return nil, errs.Configuration("band %d lower bound %g outside [0, 100]", i+1, b.LowerBound)
		}
		if i > 0 {
			prev := bands[i-1]
			if b.LowerBound <= prev.LowerBound {
				return nil, errs.Configuration("band %d lower bound %g must be greater than %g", i+1, b.LowerBound, prev.LowerBound)
			}
			if b.Tier.Rank() <= prev.Tier.Rank() {
				return nil, errs.Configuration("band %d tier %q must rank above %q", i+1, b.Tier, prev.Tier)
			}
		}
		c, ok := copies[b.Tier]
		if !ok || strings.TrimSpace(c.Label) == "" {
			return nil, errs.Configuration("tier %q has no label", b.Tier)
		}
		t.bands[i] = b
		t.copy[b.Tier] = c
	}
	return t, nil
}

// MustTable is NewTable for static presets; it panics on error.
func MustTable(bands []Band, copies map[Tier]TierCopy) *Table {
	t, err := NewTable(bands, copies)
	if err != nil {
		panic(err)
	}
	return t
}

// Classify returns the tier whose band contains pct. Bands are scanned in
// ascending order and the last band whose lower bound pct meets wins, which
// is the first band of the half-open partition that contains pct.
// Percentages below 0 fall into the first band.
func (t *Table) Classify(pct float64) Tier {
	tier := t.bands[0].Tier
	for _, b := range t.bands[1:] {
		if pct < b.LowerBound {
			break
		}
		tier = b.Tier
	}
	return tier
}

// Copy returns the static copy for tier.
func (t *Table) Copy(tier Tier) TierCopy {
	return t.copy[tier]
}

// Bands returns a copy of the bands in ascending order.
func (t *Table) Bands() []Band {
	out := make([]Band, len(t.bands))
	copy(out, t.bands)
	return out
}

// UpperBound returns the exclusive upper bound of band i, or 100 (inclusive)
// for the top band.
func (t *Table) UpperBound(i int) float64 {
	if i+1 < len(t.bands) {
		return t.bands[i+1].LowerBound
	}
	return 100
}

// Describe renders the table as "unfit <60 | conditional 60–90 | fit ≥90".
func (t *Table) Describe() string {
	parts := make([]string, len(t.bands))
	for i, b := range t.bands {
		switch {
		case len(t.bands) == 1:
			parts[i] = string(b.Tier)
		case i == 0:
			parts[i] = fmt.Sprintf("%s <%g", b.Tier, t.UpperBound(i))
		case i == len(t.bands)-1:
			parts[i] = fmt.Sprintf("%s ≥%g", b.Tier, b.LowerBound)
		default:
			parts[i] = fmt.Sprintf("%s %g–%g", b.Tier, b.LowerBound, t.UpperBound(i))
		}
	}
	return strings.Join(parts, " | ")
}
