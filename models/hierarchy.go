package models

import "strings"

// Importance is the tier an indicator carries inside its subdimension.
type Importance string

const (
	ImportanceHigh   Importance = "Alta"
	ImportanceMedium Importance = "Media"
	ImportanceLow    Importance = "Baja"
)

// ParseImportance matches a tier case-insensitively. Unknown values report false.
func ParseImportance(s string) (Importance, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alta":
		return ImportanceHigh, true
	case "media":
		return ImportanceMedium, true
	case "baja":
		return ImportanceLow, true
	}
	return "", false
}

// Role is the part a component plays in its indicator's formula.
type Role string

const (
	RoleNumerator      Role = "numerador"
	RoleDenominator    Role = "denominador"
	RoleValueToScale   Role = "valor_a_escalar"
	RoleBaseValue      Role = "valor_base"
	RoleScaleMin       Role = "minimo_escala"
	RoleScaleMax       Role = "maximo_escala"
	RoleValueToAdd     Role = "valor_a_agregar"
	RoleIndexToAverage Role = "indice_a_promediar"
)

var roles = map[Role]bool{
	RoleNumerator: true, RoleDenominator: true, RoleValueToScale: true, RoleBaseValue: true,
	RoleScaleMin: true, RoleScaleMax: true, RoleValueToAdd: true, RoleIndexToAverage: true,
}

func (r Role) Valid() bool { return roles[r] }

// SourceTable tags where a component's data lands.
type SourceTable string

const (
	SourceRaw   SourceTable = "DATOS_CRUDOS"
	SourceMacro SourceTable = "DATOS_MACRO"
)

type Dimension struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Nombre        string         `json:"nombre" gorm:"column:nombre;size:100;not null;uniqueIndex"`
	Peso          int            `json:"peso" gorm:"column:peso;not null"`
	Subdimensions []Subdimension `json:"subdimensiones,omitempty" gorm:"foreignKey:IDDimension"`
}

func (Dimension) TableName() string { return "dimensiones" }

// Subdimension weight is stored but not used when aggregating.
type Subdimension struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	Nombre      string      `json:"nombre" gorm:"column:nombre;size:100;not null;uniqueIndex"`
	Peso        int         `json:"peso" gorm:"column:peso;not null"`
	IDDimension uint        `json:"id_dimension" gorm:"column:id_dimension;index"`
	Indicators  []Indicator `json:"indicadores,omitempty" gorm:"foreignKey:IDSubdimension"`
}

func (Subdimension) TableName() string { return "subdimensiones" }

type Indicator struct {
	ID             uint        `json:"id" gorm:"primaryKey"`
	Nombre         string      `json:"nombre" gorm:"column:nombre;size:100;not null;uniqueIndex"`
	IDSubdimension uint        `json:"id_subdimension" gorm:"column:id_subdimension;index"`
	Origen         string      `json:"origen_indicador" gorm:"column:origen_indicador;size:50"`
	Formula        string      `json:"formula" gorm:"column:formula;size:20;not null"`
	Importancia    string      `json:"importancia" gorm:"column:importancia;size:10;not null"`
	Fuente         string      `json:"fuente" gorm:"column:fuente;size:200"`
	Components     []Component `json:"componentes,omitempty" gorm:"foreignKey:IDIndicador;constraint:OnDelete:CASCADE"`
}

func (Indicator) TableName() string { return "definiciones_indicadores" }

type Component struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	IDIndicador     *uint       `json:"id_indicador" gorm:"column:id_indicador;index"`
	DescripcionDato string      `json:"descripcion_dato" gorm:"column:descripcion_dato;size:200;index"`
	Fuente          SourceTable `json:"fuente" gorm:"column:fuente;size:20"`
	Rol             Role        `json:"rol" gorm:"column:rol;size:30;not null"`
}

func (Component) TableName() string { return "componentes_indicadores" }
