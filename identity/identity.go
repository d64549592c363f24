// Package identity recovers the indicator a result row belongs to. A result
// reaches its indicator either through the components of a formula or through
// the processed raw datum it was read from; the component path wins when both
// resolve.
package identity

import (
	"context"

	"gorm.io/gorm"
)

// UnknownIndicator names results that neither path resolves.
const UnknownIndicator = "Unknown Indicator"

const ResultTable = "resultados_indicadores"

// Each path is collapsed to a single indicator id per result so the joins
// never multiply result rows.
const (
	componentPath = `LEFT JOIN (
		SELECT cr.id_resultado AS id_resultado, MIN(ci.id_indicador) AS id_indicador
		FROM componentes_resultados cr
		JOIN componentes_indicadores ci ON ci.id = cr.id_componente
		GROUP BY cr.id_resultado
	) prov_comp ON prov_comp.id_resultado = resultados_indicadores.id`

	rawPath = `LEFT JOIN (
		SELECT rfc.id_resultado AS id_resultado, MIN(dc.id_indicador) AS id_indicador
		FROM resultados_fuente_crudo rfc
		JOIN processed_datos_crudos pdc ON pdc.id = rfc.id_dato_crudo
		JOIN datos_crudos dc ON dc.id = pdc.id_dato_crudo
		GROUP BY rfc.id_resultado
	) prov_raw ON prov_raw.id_resultado = resultados_indicadores.id`

	indicatorJoin = `LEFT JOIN definiciones_indicadores ind ON ind.id = COALESCE(prov_comp.id_indicador, prov_raw.id_indicador)`
)

// Columns projected by Joins. They can be used in Select, Where and Order of
// any query rooted at ResultTable.
const (
	ComponentIndicatorColumn = "prov_comp.id_indicador"
	RawIndicatorColumn       = "prov_raw.id_indicador"

	// ResolvedName is NULL when no path resolves.
	ResolvedName = "ind.nombre"

	// NameColumn never yields NULL.
	NameColumn = "COALESCE(ind.nombre, '" + UnknownIndicator + "')"

	// ImportanceColumn and SubdimensionColumn belong to the resolved indicator.
	ImportanceColumn   = "ind.importancia"
	SubdimensionColumn = "ind.id_subdimension"
)

// Joins is a gorm scope adding both provenance paths as outer joins, so rows
// lacking one path still contribute through the other.
func Joins(db *gorm.DB) *gorm.DB {
	return db.Joins(componentPath).Joins(rawPath).Joins(indicatorJoin)
}

// Results starts a query on the result table with the provenance joins applied.
func Results(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).Table(ResultTable).Scopes(Joins)
}

// YearExpr extracts the year of a result's period for the connected dialect.
func YearExpr(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "CAST(EXTRACT(YEAR FROM resultados_indicadores.periodo) AS INTEGER)"
	}
	// sqlite keeps dates as "YYYY-MM-DD ..." text.
	return "CAST(substr(resultados_indicadores.periodo, 1, 4) AS INTEGER)"
}

// Identity is the resolved indicator of one result row.
type Identity struct {
	ResultID   uint
	Name       string
	Provenance Provenance
}

type resolvedRow struct {
	ResultID           uint
	ComponentIndicator *uint
	RawIndicator       *uint
	Name               *string
}

// Resolve returns the identity of a single result. It returns
// gorm.ErrRecordNotFound when the result does not exist.
func Resolve(ctx context.Context, db *gorm.DB, resultID uint) (Identity, error) {
	var rows []resolvedRow
	err := Results(ctx, db).
		Select("resultados_indicadores.id AS result_id, " +
			ComponentIndicatorColumn + " AS component_indicator, " +
			RawIndicatorColumn + " AS raw_indicator, " +
			ResolvedName + " AS name").
		Where("resultados_indicadores.id = ?", resultID).
		Scan(&rows).Error
	if err != nil {
		return Identity{}, err
	}
	if len(rows) == 0 {
		return Identity{}, gorm.ErrRecordNotFound
	}

	row := rows[0]
	id := Identity{
		ResultID:   row.ResultID,
		Name:       UnknownIndicator,
		Provenance: NewProvenance(row.ComponentIndicator, row.RawIndicator),
	}
	if row.Name != nil {
		id.Name = *row.Name
	}
	return id, nil
}

// AvailableNames lists, sorted, the distinct indicator names that at least one
// result resolves to. Unresolved results are left out.
func AvailableNames(ctx context.Context, db *gorm.DB) ([]string, error) {
	names := []string{}
	err := Results(ctx, db).
		Distinct(ResolvedName).
		Where(ResolvedName + " IS NOT NULL").
		Order(ResolvedName + " ASC").
		Pluck(ResolvedName, &names).Error
	return names, err
}
