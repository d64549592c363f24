package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func row(dim, sub uint, weight int, value, importance string) Row {
	return Row{
		Value:            d(value),
		Importance:       importance,
		SubdimensionID:   sub,
		SubdimensionName: "sub",
		DimensionID:      dim,
		DimensionName:    "dim",
		DimensionWeight:  weight,
	}
}

func TestImportanceWeight(t *testing.T) {
	tests := []struct {
		importance string
		want       int64
	}{
		{"Alta", 3},
		{"alta", 3},
		{"ALTA", 3},
		{"Media", 2},
		{"media", 2},
		{"Baja", 1},
		{"baja", 1},
		{"", 1},
		{"Crítica", 1},
	}
	for _, tt := range tests {
		t.Run(tt.importance, func(t *testing.T) {
			assert.Equal(t, tt.want, ImportanceWeight(tt.importance))
		})
	}
}

func TestComputeNoRows(t *testing.T) {
	_, err := Compute(nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestComputeWeightedSubdimensionMean(t *testing.T) {
	// (90·3 + 80·2 + 70·1 + 60·3) / (3+2+1+3) = 680/9
	rows := []Row{
		row(1, 1, 100, "90", "Alta"),
		row(1, 1, 100, "80", "Media"),
		row(1, 1, 100, "70", "Baja"),
		row(1, 1, 100, "60", "Alta"),
	}

	got, err := Compute(rows)
	require.NoError(t, err)
	require.Len(t, got.Dimensions, 1)
	require.Len(t, got.Dimensions[0].Subdimensions, 1)

	assert.Equal(t, "75.56", got.Dimensions[0].Subdimensions[0].Score.StringFixed(2))
	assert.Equal(t, 4, got.Dimensions[0].Subdimensions[0].Count)
	assert.Equal(t, "75.56", got.Dimensions[0].Score.StringFixed(2))
	assert.Equal(t, "75.56", got.Global.StringFixed(2))
}

func TestComputeDimensionIsPlainMeanOfSubdimensions(t *testing.T) {
	rows := []Row{
		row(1, 1, 100, "76.67", "Alta"),
		row(1, 2, 100, "50.00", "Baja"),
	}

	got, err := Compute(rows)
	require.NoError(t, err)
	require.Len(t, got.Dimensions, 1)

	assert.Equal(t, "63.34", got.Dimensions[0].Score.StringFixed(2))
	assert.Len(t, got.Dimensions[0].Subdimensions, 2)
}

func TestComputeGlobalUsesDimensionWeights(t *testing.T) {
	rows := []Row{
		row(2, 20, 40, "90.00", "Media"),
		row(1, 10, 60, "63.34", "Alta"),
	}

	got, err := Compute(rows)
	require.NoError(t, err)
	require.Len(t, got.Dimensions, 2)

	first, second := got.Dimensions[0], got.Dimensions[1]
	assert.Equal(t, uint(1), first.ID, "dimensions are ordered by id")
	assert.Equal(t, "63.34", first.Score.StringFixed(2))
	assert.Equal(t, "60", first.Weight.String())
	assert.Equal(t, "38.00", first.Contribution.StringFixed(2))
	assert.Equal(t, "90.00", second.Score.StringFixed(2))
	assert.Equal(t, "36.00", second.Contribution.StringFixed(2))
	assert.Equal(t, "74.00", got.Global.StringFixed(2))
}

func TestComputeRoundsHalfUp(t *testing.T) {
	rows := []Row{
		row(1, 1, 10, "0.125", "Baja"),
	}

	got, err := Compute(rows)
	require.NoError(t, err)

	assert.Equal(t, "0.13", got.Dimensions[0].Score.StringFixed(2))
	assert.Equal(t, "0.01", got.Dimensions[0].Contribution.StringFixed(2))
	assert.Equal(t, "0.01", got.Global.StringFixed(2))
}

func TestComputeZeroIsAValidScore(t *testing.T) {
	got, err := Compute([]Row{row(1, 1, 100, "0", "Alta")})
	require.NoError(t, err)
	assert.True(t, got.Global.IsZero())
}

func TestSelectionValidate(t *testing.T) {
	full := Selection{Country: "España", Year: 2023, Sector: "Industria", CompanySize: "Pyme"}
	assert.NoError(t, full.Validate())

	for name, mutate := range map[string]func(*Selection){
		"country": func(s *Selection) { s.Country = "" },
		"year":    func(s *Selection) { s.Year = 0 },
		"sector":  func(s *Selection) { s.Sector = "" },
		"size":    func(s *Selection) { s.CompanySize = "" },
	} {
		t.Run(name, func(t *testing.T) {
			s := full
			mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrIncompleteSelection)
		})
	}
}
