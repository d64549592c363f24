// Package dbtest builds throwaway sqlite stores and fixture rows for tests.
package dbtest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/VLP-TECH/camara-vlc/config"
	"github.com/VLP-TECH/camara-vlc/database"
	"github.com/VLP-TECH/camara-vlc/models"
)

// NewDB opens a migrated sqlite database under t.TempDir().
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Fixture creates catalog and result rows, failing the test on any error.
type Fixture struct {
	DB *gorm.DB
	t  testing.TB

	rawSeq int
}

func NewFixture(t testing.TB) *Fixture {
	return &Fixture{DB: NewDB(t), t: t}
}

func (f *Fixture) create(v interface{}) {
	f.t.Helper()
	require.NoError(f.t, f.DB.Create(v).Error)
}

func (f *Fixture) Dimension(name string, weight int) *models.Dimension {
	d := &models.Dimension{Nombre: name, Peso: weight}
	f.create(d)
	return d
}

func (f *Fixture) Subdimension(dim *models.Dimension, name string) *models.Subdimension {
	s := &models.Subdimension{Nombre: name, IDDimension: dim.ID}
	f.create(s)
	return s
}

func (f *Fixture) Indicator(sub *models.Subdimension, name, importance string) *models.Indicator {
	i := &models.Indicator{Nombre: name, IDSubdimension: sub.ID, Formula: "RATIO", Importancia: importance}
	f.create(i)
	return i
}

func (f *Fixture) Component(ind *models.Indicator, description string, role models.Role) *models.Component {
	c := &models.Component{IDIndicador: &ind.ID, DescripcionDato: description, Fuente: models.SourceRaw, Rol: role}
	f.create(c)
	return c
}

// ProcessedRaw creates a raw datum for ind plus its processed projection.
func (f *Fixture) ProcessedRaw(ind *models.Indicator) *models.ProcessedRawDatum {
	f.rawSeq++
	period := 1900 + f.rawSeq
	raw := &models.RawDatum{IDIndicador: &ind.ID, Periodo: &period, Procesado: true}
	f.create(raw)
	p := &models.ProcessedRawDatum{IDDatoCrudo: raw.ID, Procesado: true}
	f.create(p)
	return p
}

// Row describes the measured value and context of a result.
type Row struct {
	Value    string
	Year     int
	Country  string
	Province string
	Sector   string
	Size     string
}

func (f *Fixture) newResult(r Row) *models.Result {
	res := &models.Result{
		ValorCalculado: decimal.RequireFromString(r.Value),
		Pais:           models.String(r.Country),
		Provincia:      models.String(r.Province),
		Sector:         models.String(r.Sector),
		TamanoEmpresa:  models.String(r.Size),
	}
	if r.Year != 0 {
		p := time.Date(r.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		res.Periodo = &p
	}
	return res
}

// ResultViaComponents links the result to its indicator through components.
func (f *Fixture) ResultViaComponents(r Row, comps ...*models.Component) *models.Result {
	res := f.newResult(r)
	for _, c := range comps {
		res.Components = append(res.Components, *c)
	}
	f.create(res)
	return res
}

// ResultViaRaw links the result to its indicator through processed raw data.
func (f *Fixture) ResultViaRaw(r Row, sources ...*models.ProcessedRawDatum) *models.Result {
	res := f.newResult(r)
	for _, s := range sources {
		res.RawSources = append(res.RawSources, *s)
	}
	f.create(res)
	return res
}

// Orphan creates a result that no path resolves.
func (f *Fixture) Orphan(r Row) *models.Result {
	res := f.newResult(r)
	f.create(res)
	return res
}
