// Package results lists stored results under their resolved indicator name.
package results

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/VLP-TECH/camara-vlc/identity"
)

const (
	DefaultPerPage = 1000
	MaxPerPage     = 5000
)

var ErrInvalidPage = errors.New("page must be >= 1 and per_page between 1 and 5000")

// Query selects a page of results. Sector and IndicatorName match
// case-insensitive substrings; the rest match exactly. Zero values do not
// filter.
type Query struct {
	Page          int
	PerPage       int
	Country       string
	Year          int
	Sector        string
	CompanySize   string
	Province      string
	IndicatorName string
}

func (q Query) Validate() error {
	if q.Page < 1 || q.PerPage < 1 || q.PerPage > MaxPerPage {
		return ErrInvalidPage
	}
	return nil
}

type Row struct {
	NombreIndicador string  `json:"nombre_indicador"`
	Resultado       float64 `json:"resultado"`
	Periodo         *string `json:"periodo"`
	Pais            *string `json:"pais"`
	Provincia       *string `json:"provincia"`
	Sector          *string `json:"sector"`
	TamanoEmpresa   *string `json:"tamano_empresa"`
}

type scanned struct {
	Name          string
	Value         decimal.Decimal
	Periodo       *time.Time
	Pais          *string
	Provincia     *string
	Sector        *string
	TamanoEmpresa *string
}

const listColumns = identity.NameColumn + ` AS name,
	resultados_indicadores.valor_calculado AS value,
	resultados_indicadores.periodo AS periodo,
	resultados_indicadores.pais AS pais,
	resultados_indicadores.provincia AS provincia,
	resultados_indicadores.sector AS sector,
	resultados_indicadores.tamano_empresa AS tamano_empresa`

func contains(s string) string { return "%" + s + "%" }

// List returns one page of results ordered by period, oldest first.
func List(ctx context.Context, db *gorm.DB, q Query) ([]Row, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	query := identity.Results(ctx, db).Select(listColumns)

	if q.Country != "" {
		query = query.Where("resultados_indicadores.pais = ?", q.Country)
	}
	if q.Province != "" {
		query = query.Where("resultados_indicadores.provincia = ?", q.Province)
	}
	if q.Sector != "" {
		query = query.Where("LOWER(resultados_indicadores.sector) LIKE LOWER(?)", contains(q.Sector))
	}
	if q.CompanySize != "" {
		query = query.Where("resultados_indicadores.tamano_empresa = ?", q.CompanySize)
	}
	if q.Year != 0 {
		query = query.Where(identity.YearExpr(db)+" = ?", q.Year)
	}
	if q.IndicatorName != "" {
		query = query.Where("LOWER("+identity.ResolvedName+") LIKE LOWER(?)", contains(q.IndicatorName))
	}

	var rows []scanned
	err := query.
		Order("resultados_indicadores.periodo ASC, resultados_indicadores.id ASC").
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		row := Row{
			NombreIndicador: r.Name,
			Resultado:       r.Value.InexactFloat64(),
			Pais:            r.Pais,
			Provincia:       r.Provincia,
			Sector:          r.Sector,
			TamanoEmpresa:   r.TamanoEmpresa,
		}
		if r.Periodo != nil {
			p := r.Periodo.Format("2006-01-02")
			row.Periodo = &p
		}
		out = append(out, row)
	}
	return out, nil
}
