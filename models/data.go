package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawDatum is an ingested observation tied to a single indicator.
type RawDatum struct {
	ID              uint                `json:"id" gorm:"primaryKey"`
	IDIndicador     *uint               `json:"id_indicador" gorm:"column:id_indicador;uniqueIndex:uq_dato_crudo_conceptual,priority:1"`
	DescripcionDato *string             `json:"descripcion_dato" gorm:"column:descripcion_dato;size:200"`
	Unidad          string              `json:"unidad" gorm:"column:unidad;size:40"`
	Valor           decimal.NullDecimal `json:"valor" gorm:"column:valor;type:numeric(20,2)"`
	Periodo         *int                `json:"periodo" gorm:"column:periodo;uniqueIndex:uq_dato_crudo_conceptual,priority:4"`
	Pais            *string             `json:"pais" gorm:"column:pais;size:100;uniqueIndex:uq_dato_crudo_conceptual,priority:3"`
	Provincia       *string             `json:"provincia" gorm:"column:provincia;size:100;uniqueIndex:uq_dato_crudo_conceptual,priority:2"`
	TamanoEmpresa   *string             `json:"tamano_empresa" gorm:"column:tamano_empresa;size:100;uniqueIndex:uq_dato_crudo_conceptual,priority:5"`
	Sector          *string             `json:"sector" gorm:"column:sector;size:300;uniqueIndex:uq_dato_crudo_conceptual,priority:6"`
	Procesado       bool                `json:"procesado" gorm:"column:procesado;default:false"`

	Processed *ProcessedRawDatum `json:"-" gorm:"foreignKey:IDDatoCrudo"`
}

func (RawDatum) TableName() string { return "datos_crudos" }

// MacroDatum is shared across indicators and deduplicated by description.
type MacroDatum struct {
	ID              uint                `json:"id" gorm:"primaryKey"`
	DescripcionDato *string             `json:"descripcion_dato" gorm:"column:descripcion_dato;size:200;index"`
	Unidad          string              `json:"unidad" gorm:"column:unidad;size:40"`
	Valor           decimal.NullDecimal `json:"valor" gorm:"column:valor;type:numeric(20,2)"`
	Periodo         *int                `json:"periodo" gorm:"column:periodo"`
	Pais            *string             `json:"pais" gorm:"column:pais;size:100"`
	Provincia       *string             `json:"provincia" gorm:"column:provincia;size:100"`
	TamanoEmpresa   *string             `json:"tamano_empresa" gorm:"column:tamano_empresa;size:100"`
	Sector          *string             `json:"sector" gorm:"column:sector;size:200"`
}

func (MacroDatum) TableName() string { return "datos_macro" }

// ProcessedRawDatum is the cleaned 1:1 projection of a RawDatum.
type ProcessedRawDatum struct {
	ID              uint                `json:"id" gorm:"primaryKey"`
	IDDatoCrudo     uint                `json:"id_dato_crudo" gorm:"column:id_dato_crudo;not null;uniqueIndex"`
	DescripcionDato *string             `json:"descripcion_dato" gorm:"column:descripcion_dato;size:200"`
	Valor           decimal.NullDecimal `json:"valor" gorm:"column:valor;type:numeric(20,2)"`
	UnidadTipo      *string             `json:"unidad_tipo" gorm:"column:unidad_tipo;size:50"`
	UnidadDisplay   *string             `json:"unidad_display" gorm:"column:unidad_display;size:80"`
	Periodo         *time.Time          `json:"periodo" gorm:"column:periodo;type:date"`
	Pais            *string             `json:"pais" gorm:"column:pais;size:100"`
	Provincia       *string             `json:"provincia" gorm:"column:provincia;size:100"`
	TamanoEmpresa   *string             `json:"tamano_empresa" gorm:"column:tamano_empresa;size:100"`
	Sector          *string             `json:"sector" gorm:"column:sector;size:300"`
	Procesado       bool                `json:"procesado" gorm:"column:procesado"`
}

func (ProcessedRawDatum) TableName() string { return "processed_datos_crudos" }

type ProcessedMacroDatum struct {
	ID              uint                `json:"id" gorm:"primaryKey"`
	IDDatoMacro     uint                `json:"id_dato_macro" gorm:"column:id_dato_macro;not null;index"`
	DescripcionDato *string             `json:"descripcion_dato" gorm:"column:descripcion_dato;size:200"`
	Valor           decimal.NullDecimal `json:"valor" gorm:"column:valor;type:numeric(20,2)"`
	UnidadTipo      *string             `json:"unidad_tipo" gorm:"column:unidad_tipo;size:50"`
	UnidadDisplay   *string             `json:"unidad_display" gorm:"column:unidad_display;size:80"`
	Periodo         *time.Time          `json:"periodo" gorm:"column:periodo;type:date"`
	Pais            *string             `json:"pais" gorm:"column:pais;size:100"`
	Provincia       *string             `json:"provincia" gorm:"column:provincia;size:100"`
	TamanoEmpresa   *string             `json:"tamano_empresa" gorm:"column:tamano_empresa;size:100"`
	Sector          *string             `json:"sector" gorm:"column:sector;size:200"`
}

func (ProcessedMacroDatum) TableName() string { return "processed_datos_macro" }
