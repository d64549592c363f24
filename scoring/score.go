package scoring

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/VLP-TECH/camara-vlc/identity"
	"github.com/VLP-TECH/camara-vlc/metrics"
)

// ErrIncompleteSelection reports a selection missing a required field.
var ErrIncompleteSelection = errors.New("country, year, sector and company size are required")

// Selection is the context a score is computed for. Province is optional.
type Selection struct {
	Country     string
	Year        int
	Sector      string
	CompanySize string
	Province    string
}

func (s Selection) Validate() error {
	if s.Country == "" || s.Year == 0 || s.Sector == "" || s.CompanySize == "" {
		return ErrIncompleteSelection
	}
	return nil
}

// Score is a computed breakdown together with the selection it answers.
type Score struct {
	Selection Selection
	*Breakdown
}

const rowColumns = `resultados_indicadores.id AS result_id,
	resultados_indicadores.valor_calculado AS value, ` +
	identity.ImportanceColumn + ` AS importance,
	sd.id AS subdimension_id,
	sd.nombre AS subdimension_name,
	d.id AS dimension_id,
	d.nombre AS dimension_name,
	d.peso AS dimension_weight`

// Rows loads the results matching sel with their resolved subdimension and
// dimension. Results whose indicator cannot be resolved are left out.
func Rows(ctx context.Context, db *gorm.DB, sel Selection) ([]Row, error) {
	q := identity.Results(ctx, db).
		Select(rowColumns).
		Joins("JOIN subdimensiones sd ON sd.id = " + identity.SubdimensionColumn).
		Joins("JOIN dimensiones d ON d.id = sd.id_dimension").
		Where("resultados_indicadores.pais = ?", sel.Country).
		Where(identity.YearExpr(db)+" = ?", sel.Year).
		Where("resultados_indicadores.sector = ?", sel.Sector).
		Where("resultados_indicadores.tamano_empresa = ?", sel.CompanySize)
	if sel.Province != "" {
		q = q.Where("resultados_indicadores.provincia = ?", sel.Province)
	}

	var rows []Row
	err := q.Order("d.id, sd.id, resultados_indicadores.id").Scan(&rows).Error
	return rows, err
}

// Calculate computes the score for sel from the stored results. It returns
// ErrNoData when nothing matches.
func Calculate(ctx context.Context, db *gorm.DB, sel Selection) (*Score, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() {
		metrics.ScoreDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	}()

	rows, err := Rows(ctx, db, sel)
	if err != nil {
		return nil, err
	}
	breakdown, err := Compute(rows)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			metrics.ScoreNoDataTotal.Inc()
		}
		return nil, err
	}
	return &Score{Selection: sel, Breakdown: breakdown}, nil
}
