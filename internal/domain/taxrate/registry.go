package taxrate

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Validate checks the band set and statutory rates before any calculation
// uses them. Bands sorted by BandOrder must cover [0, inf) with no gaps or
// overlaps, and exactly one band must be unbounded.
func (r Registry) Validate() error {
	if len(r.Bands) == 0 {
		return fmt.Errorf("%w: no tax bands configured", ErrInvalidConfiguration)
	}

	bands := make([]TaxBand, len(r.Bands))
	copy(bands, r.Bands)
	sort.Slice(bands, func(i, j int) bool { return bands[i].BandOrder < bands[j].BandOrder })

	unbounded := 0
	for i, b := range bands {
		if i > 0 && b.BandOrder == bands[i-1].BandOrder {
			return fmt.Errorf("%w: duplicate band order %d", ErrInvalidConfiguration, b.BandOrder)
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: band %d rate must be between 0 and 1", ErrInvalidConfiguration, b.BandOrder)
		}

		if i == 0 {
			if !b.MinAmount.IsZero() {
				return fmt.Errorf("%w: first band must start at 0", ErrInvalidConfiguration)
			}
		} else {
			prev := bands[i-1]
			if prev.MaxAmount == nil {
				return fmt.Errorf("%w: band %d follows an unbounded band", ErrInvalidConfiguration, b.BandOrder)
			}
			if !b.MinAmount.Equal(*prev.MaxAmount) {
				return fmt.Errorf("%w: gap or overlap between band %d and band %d", ErrInvalidConfiguration, prev.BandOrder, b.BandOrder)
			}
		}

		if b.MaxAmount == nil {
			unbounded++
		} else if !b.MaxAmount.GreaterThan(b.MinAmount) {
			return fmt.Errorf("%w: band %d max must exceed min", ErrInvalidConfiguration, b.BandOrder)
		}
	}

	if unbounded != 1 {
		return fmt.Errorf("%w: exactly one unbounded top band is required, found %d", ErrInvalidConfiguration, unbounded)
	}

	for t, rate := range r.Rates {
		if rate.EmployeeRate.IsNegative() || rate.EmployeeRate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: %s employee rate must be between 0 and 1", ErrInvalidConfiguration, t)
		}
		if rate.EmployerRate.IsNegative() || rate.EmployerRate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: %s employer rate must be between 0 and 1", ErrInvalidConfiguration, t)
		}
		if rate.CapAmount != nil && rate.CapAmount.IsNegative() {
			return fmt.Errorf("%w: %s cap must be non-negative", ErrInvalidConfiguration, t)
		}
	}

	return nil
}

// SortedBands returns the bands ordered by BandOrder. Callers should have
// validated the registry first.
func (r Registry) SortedBands() []TaxBand {
	bands := make([]TaxBand, len(r.Bands))
	copy(bands, r.Bands)
	sort.Slice(bands, func(i, j int) bool { return bands[i].BandOrder < bands[j].BandOrder })
	return bands
}
