package taxrate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func validBands() []TaxBand {
	return []TaxBand{
		{BandOrder: 1, MinAmount: d("0"), MaxAmount: dp("5100"), Rate: d("0")},
		{BandOrder: 2, MinAmount: d("5100"), MaxAmount: dp("7100"), Rate: d("0.20")},
		{BandOrder: 3, MinAmount: d("7100"), MaxAmount: dp("9200"), Rate: d("0.30")},
		{BandOrder: 4, MinAmount: d("9200"), MaxAmount: nil, Rate: d("0.37")},
	}
}

func TestRegistryValidate(t *testing.T) {
	t.Run("valid band set passes", func(t *testing.T) {
		r := Registry{CompanyID: "c1", Bands: validBands()}
		assert.NoError(t, r.Validate())
	})

	t.Run("empty band set fails", func(t *testing.T) {
		r := Registry{CompanyID: "c1"}
		err := r.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("first band must start at zero", func(t *testing.T) {
		bands := validBands()
		bands[0].MinAmount = d("100")
		r := Registry{Bands: bands}
		assert.ErrorIs(t, r.Validate(), ErrInvalidConfiguration)
	})

	t.Run("gap between bands fails", func(t *testing.T) {
		bands := validBands()
		bands[1].MinAmount = d("5200")
		r := Registry{Bands: bands}
		assert.ErrorIs(t, r.Validate(), ErrInvalidConfiguration)
	})

	t.Run("overlap between bands fails", func(t *testing.T) {
		bands := validBands()
		bands[1].MinAmount = d("5000")
		r := Registry{Bands: bands}
		assert.ErrorIs(t, r.Validate(), ErrInvalidConfiguration)
	})

	t.Run("no unbounded top band fails", func(t *testing.T) {
		bands := validBands()
		bands[3].MaxAmount = dp("20000")
		r := Registry{Bands: bands}
		assert.ErrorIs(t, r.Validate(), ErrInvalidConfiguration)
	})

	t.Run("band after unbounded band fails", func(t *testing.T) {
		bands := validBands()
		bands[2].MaxAmount = nil
		r := Registry{Bands: bands}
		assert.ErrorIs(t, r.Validate(), ErrInvalidConfiguration)
	})

	t.Run("duplicate band order fails", func(t *testing.T) {
		bands := validBands()
		bands[1].BandOrder = 1
		r := Registry{Bands: bands}
		assert.ErrorIs(t, r.Validate(), ErrInvalidConfiguration)
	})

	t.Run("rate above one fails", func(t *testing.T) {
		bands := validBands()
		bands[2].Rate = d("1.5")
		r := Registry{Bands: bands}
		assert.ErrorIs(t, r.Validate(), ErrInvalidConfiguration)
	})

	t.Run("negative statutory rate fails", func(t *testing.T) {
		r := Registry{
			Bands: validBands(),
			Rates: map[StatutoryType]StatutoryRate{
				StatutoryNapsa: {Type: StatutoryNapsa, EmployeeRate: d("-0.05")},
			},
		}
		assert.ErrorIs(t, r.Validate(), ErrInvalidConfiguration)
	})

	t.Run("negative cap fails", func(t *testing.T) {
		r := Registry{
			Bands: validBands(),
			Rates: map[StatutoryType]StatutoryRate{
				StatutoryNhima: {Type: StatutoryNhima, EmployeeRate: d("0.01"), CapAmount: dp("-1")},
			},
		}
		assert.ErrorIs(t, r.Validate(), ErrInvalidConfiguration)
	})
}

func TestSortedBands(t *testing.T) {
	bands := validBands()
	// shuffle the input order
	r := Registry{Bands: []TaxBand{bands[2], bands[0], bands[3], bands[1]}}

	sorted := r.SortedBands()
	require.Len(t, sorted, 4)
	for i, b := range sorted {
		assert.Equal(t, i+1, b.BandOrder)
	}
	// input slice untouched
	assert.Equal(t, 3, r.Bands[0].BandOrder)
}
