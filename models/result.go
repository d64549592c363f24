package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Result is the computed value the scoring engine consumes. It reaches its
// indicator through Components or through RawSources; either may be empty.
type Result struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	ValorCalculado decimal.Decimal `json:"valor_calculado" gorm:"column:valor_calculado;type:numeric(20,6);not null"`
	FechaCalculo   *time.Time      `json:"fecha_calculo" gorm:"column:fecha_calculo;type:date"`
	UnidadTipo     *string         `json:"unidad_tipo" gorm:"column:unidad_tipo;size:50"`
	UnidadDisplay  *string         `json:"unidad_display" gorm:"column:unidad_display;size:80"`
	Periodo        *time.Time      `json:"periodo" gorm:"column:periodo;type:date"`
	Pais           *string         `json:"pais" gorm:"column:pais;size:100"`
	Provincia      *string         `json:"provincia" gorm:"column:provincia;size:100"`
	Sector         *string         `json:"sector" gorm:"column:sector;size:300"`
	TamanoEmpresa  *string         `json:"tamano_empresa" gorm:"column:tamano_empresa;size:100"`

	Components   []Component           `json:"-" gorm:"many2many:componentes_resultados;joinForeignKey:IDResultado;joinReferences:IDComponente"`
	RawSources   []ProcessedRawDatum   `json:"-" gorm:"many2many:resultados_fuente_crudo;joinForeignKey:IDResultado;joinReferences:IDDatoCrudo"`
	MacroSources []ProcessedMacroDatum `json:"-" gorm:"many2many:resultados_fuente_macro;joinForeignKey:IDResultado;joinReferences:IDDatoMacro"`
}

func (Result) TableName() string { return "resultados_indicadores" }

// All lists every entity in migration order.
func All() []interface{} {
	return []interface{}{
		&Dimension{},
		&Subdimension{},
		&Indicator{},
		&Component{},
		&RawDatum{},
		&MacroDatum{},
		&ProcessedRawDatum{},
		&ProcessedMacroDatum{},
		&Result{},
	}
}

// String returns a pointer to s, or nil when s is empty.
func String(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
