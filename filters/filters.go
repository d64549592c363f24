// Package filters computes the values each facet can take under a partial
// selection, so that every dropdown only offers combinations that have data.
package filters

import (
	"context"

	"gorm.io/gorm"

	"github.com/VLP-TECH/camara-vlc/identity"
)

// Selection is a partial choice of facets. Zero values are unconstrained.
type Selection struct {
	Country       string
	Year          int
	Sector        string
	CompanySize   string
	Province      string
	IndicatorName string
}

// Facets holds the reachable values of every facet.
type Facets struct {
	Countries    []string `json:"paises"`
	Provinces    []string `json:"provincias"`
	Sectors      []string `json:"sectores"`
	CompanySizes []string `json:"tamanos_empresa"`
	Years        []int    `json:"anios"`
}

// Unfiltered holds every stored value of every facet.
type Unfiltered struct {
	Countries    []string `json:"paises"`
	Periods      []int    `json:"periodos"`
	Sectors      []string `json:"sectores"`
	CompanySizes []string `json:"tamano_empresa"`
	Provinces    []string `json:"provincias"`
}

type facet int

const (
	facetNone facet = iota
	facetCountry
	facetYear
	facetSector
	facetCompanySize
	facetProvince
)

var columns = map[facet]string{
	facetCountry:     "resultados_indicadores.pais",
	facetSector:      "resultados_indicadores.sector",
	facetCompanySize: "resultados_indicadores.tamano_empresa",
	facetProvince:    "resultados_indicadores.provincia",
}

// constrained applies every active constraint of sel except the one on skip.
func constrained(ctx context.Context, db *gorm.DB, sel Selection, skip facet) *gorm.DB {
	q := identity.Results(ctx, db)

	if sel.IndicatorName != "" {
		q = q.Where(identity.ResolvedName+" = ?", sel.IndicatorName)
	}
	if sel.Country != "" && skip != facetCountry {
		q = q.Where(columns[facetCountry]+" = ?", sel.Country)
	}
	if sel.Year != 0 && skip != facetYear {
		q = q.Where(identity.YearExpr(db)+" = ?", sel.Year)
	}
	if sel.Sector != "" && skip != facetSector {
		q = q.Where(columns[facetSector]+" = ?", sel.Sector)
	}
	if sel.CompanySize != "" && skip != facetCompanySize {
		q = q.Where(columns[facetCompanySize]+" = ?", sel.CompanySize)
	}
	if sel.Province != "" && skip != facetProvince {
		q = q.Where(columns[facetProvince]+" = ?", sel.Province)
	}
	return q
}

func distinctValues(ctx context.Context, db *gorm.DB, sel Selection, f facet) ([]string, error) {
	column := columns[f]
	values := []string{}
	err := constrained(ctx, db, sel, f).
		Distinct(column).
		Where(column + " IS NOT NULL").
		Order(column + " ASC").
		Pluck(column, &values).Error
	return values, err
}

func distinctYears(ctx context.Context, db *gorm.DB, sel Selection, skip facet, order string) ([]int, error) {
	year := identity.YearExpr(db)
	years := []int{}
	err := constrained(ctx, db, sel, skip).
		Distinct(year).
		Where("resultados_indicadores.periodo IS NOT NULL").
		Order(year + " " + order).
		Pluck(year, &years).Error
	return years, err
}

// Available computes each facet independently, constrained by every other
// selected facet but not by itself. Years are returned newest first, the
// rest in ascending order.
func Available(ctx context.Context, db *gorm.DB, sel Selection) (*Facets, error) {
	var (
		out Facets
		err error
	)
	if out.Countries, err = distinctValues(ctx, db, sel, facetCountry); err != nil {
		return nil, err
	}
	if out.Sectors, err = distinctValues(ctx, db, sel, facetSector); err != nil {
		return nil, err
	}
	if out.CompanySizes, err = distinctValues(ctx, db, sel, facetCompanySize); err != nil {
		return nil, err
	}
	if out.Provinces, err = distinctValues(ctx, db, sel, facetProvince); err != nil {
		return nil, err
	}
	if out.Years, err = distinctYears(ctx, db, sel, facetYear, "DESC"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Unconditional lists every non-null value of each facet without any
// cross-filtering.
func Unconditional(ctx context.Context, db *gorm.DB) (*Unfiltered, error) {
	var (
		out Unfiltered
		err error
		all Selection
	)
	if out.Countries, err = distinctValues(ctx, db, all, facetCountry); err != nil {
		return nil, err
	}
	if out.Periods, err = distinctYears(ctx, db, all, facetNone, "ASC"); err != nil {
		return nil, err
	}
	if out.Sectors, err = distinctValues(ctx, db, all, facetSector); err != nil {
		return nil, err
	}
	if out.CompanySizes, err = distinctValues(ctx, db, all, facetCompanySize); err != nil {
		return nil, err
	}
	if out.Provinces, err = distinctValues(ctx, db, all, facetProvince); err != nil {
		return nil, err
	}
	return &out, nil
}
