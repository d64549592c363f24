// Package scoring aggregates results into the three-level Brainnova score:
// indicator values into subdimensions (importance-weighted mean),
// subdimensions into dimensions (plain mean) and dimensions into the global
// score (configured percentage weights).
package scoring

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/VLP-TECH/camara-vlc/models"
)

// ErrNoData reports a selection with no matching results. It is not a zero
// score.
var ErrNoData = errors.New("insufficient data to compute the score")

var hundred = decimal.NewFromInt(100)

// Row is one result with its resolved position in the hierarchy.
type Row struct {
	ResultID         uint
	Value            decimal.Decimal
	Importance       string
	SubdimensionID   uint
	SubdimensionName string
	DimensionID      uint
	DimensionName    string
	DimensionWeight  int
}

type SubdimensionScore struct {
	ID    uint
	Name  string
	Score decimal.Decimal
	Count int
}

type DimensionScore struct {
	ID            uint
	Name          string
	Score         decimal.Decimal
	Weight        decimal.Decimal
	Contribution  decimal.Decimal
	Subdimensions []SubdimensionScore
}

// Breakdown is the outcome of Compute. Dimension scores and contributions are
// rounded to two decimals; Global is the rounded sum of the unrounded
// contributions.
type Breakdown struct {
	Global     decimal.Decimal
	Dimensions []DimensionScore
}

// ImportanceWeight maps an importance tier to its weight. Unknown or empty
// tiers weigh as Baja.
func ImportanceWeight(importance string) int64 {
	tier, _ := models.ParseImportance(importance)
	switch tier {
	case models.ImportanceHigh:
		return 3
	case models.ImportanceMedium:
		return 2
	default:
		return 1
	}
}

type accumulator struct {
	name          string
	weighted, sum decimal.Decimal
	count         int
}

// Compute runs the scoring pyramid over rows. Dimensions are returned in
// ascending id order.
func Compute(rows []Row) (*Breakdown, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	type dimension struct {
		name    string
		weight  decimal.Decimal
		subdims map[uint]*accumulator
	}
	dims := make(map[uint]*dimension)

	for _, r := range rows {
		d, ok := dims[r.DimensionID]
		if !ok {
			d = &dimension{
				name:    r.DimensionName,
				weight:  decimal.NewFromInt(int64(r.DimensionWeight)),
				subdims: make(map[uint]*accumulator),
			}
			dims[r.DimensionID] = d
		}
		acc, ok := d.subdims[r.SubdimensionID]
		if !ok {
			acc = &accumulator{name: r.SubdimensionName}
			d.subdims[r.SubdimensionID] = acc
		}
		w := decimal.NewFromInt(ImportanceWeight(r.Importance))
		acc.weighted = acc.weighted.Add(r.Value.Mul(w))
		acc.sum = acc.sum.Add(w)
		acc.count++
	}

	out := &Breakdown{Global: decimal.Zero}
	global := decimal.Zero
	for _, dimID := range sortedKeys(dims) {
		d := dims[dimID]

		// Level 1: importance-weighted mean per subdimension.
		subScores := make([]SubdimensionScore, 0, len(d.subdims))
		total := decimal.Zero
		for _, subID := range sortedKeys(d.subdims) {
			acc := d.subdims[subID]
			score := decimal.Zero
			if !acc.sum.IsZero() {
				score = acc.weighted.Div(acc.sum)
			}
			total = total.Add(score)
			subScores = append(subScores, SubdimensionScore{ID: subID, Name: acc.name, Score: score.Round(2), Count: acc.count})
		}
		if len(subScores) == 0 {
			continue
		}

		// Level 2: plain mean of the subdimension scores.
		score := total.Div(decimal.NewFromInt(int64(len(subScores))))

		// Level 3: contribution by configured percentage.
		contribution := score.Mul(d.weight).Div(hundred)
		global = global.Add(contribution)

		out.Dimensions = append(out.Dimensions, DimensionScore{
			ID:            dimID,
			Name:          d.name,
			Score:         score.Round(2),
			Weight:        d.weight,
			Contribution:  contribution.Round(2),
			Subdimensions: subScores,
		})
	}
	out.Global = global.Round(2)
	return out, nil
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
