// Package loader ingests CSV batches into the raw and macro data tables,
// inserting only observations whose natural key is not already stored.
package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VLP-TECH/camara-vlc/logging"
	"github.com/VLP-TECH/camara-vlc/metrics"
	"github.com/VLP-TECH/camara-vlc/models"
)

var (
	// ErrNoIndicator means raw data could not be attached to any indicator.
	// The batch is skipped without failing the run.
	ErrNoIndicator = errors.New("no indicator matches source")

	// ErrIntegrityConflict means the store rejected a row the dedup check let
	// through. The batch is rolled back.
	ErrIntegrityConflict = errors.New("integrity conflict")
)

const insertBatchSize = 500

// Report summarizes one committed batch.
type Report struct {
	Source      string `json:"source"`
	File        string `json:"file"`
	Table       string `json:"table"`
	IndicatorID *uint  `json:"indicator_id,omitempty"`
	Inserted    int    `json:"inserted"`
	Duplicates  int    `json:"duplicates"`
}

// Failure is a source or batch that was skipped or rolled back.
type Failure struct {
	Source  string `json:"source"`
	Reason  string `json:"reason"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func newFailure(source, reason string, err error) Failure {
	return Failure{Source: source, Reason: reason, Message: err.Error(), Err: err}
}

// RunReport collects the outcome of a full manifest run.
type RunReport struct {
	RunID    string    `json:"run_id"`
	Batches  []Report  `json:"batches"`
	Skipped  []Failure `json:"skipped"`
	Inserted int       `json:"inserted"`
}

type Loader struct {
	db     *gorm.DB
	shared map[string]bool
	log    *zap.Logger
	runID  string
}

// New returns a loader writing to db. Sources whose description appears in
// shared go to the macro table.
func New(db *gorm.DB, shared map[string]bool) *Loader {
	runID := uuid.NewString()
	return &Loader{
		db:     db,
		shared: shared,
		log:    logging.Logger.With(zap.String("run_id", runID)),
		runID:  runID,
	}
}

func (l *Loader) RunID() string { return l.runID }

// Run loads every source in order. Each batch commits or rolls back on its
// own; failures are recorded and the run moves on.
func (l *Loader) Run(ctx context.Context, sources []Source) *RunReport {
	report := &RunReport{RunID: l.runID}
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			report.Skipped = append(report.Skipped, newFailure(src.Label(), "canceled", err))
			break
		}
		if src.Skip() {
			l.log.Debug("source has no description, skipping", zap.String("file", src.File))
			continue
		}

		batches, err := l.LoadSource(ctx, src)
		report.Batches = append(report.Batches, batches...)
		for _, b := range batches {
			report.Inserted += b.Inserted
		}
		for _, e := range unjoin(err) {
			reason := failureReason(e)
			metrics.LoaderSourcesFailed.WithLabelValues(reason).Inc()
			report.Skipped = append(report.Skipped, newFailure(src.Label(), reason, e))
			if reason == "no_indicator" {
				l.log.Warn("no indicator for source, skipping", zap.String("source", src.Label()), zap.Error(e))
			} else {
				l.log.Error("source failed", zap.String("source", src.Label()), zap.String("reason", reason), zap.Error(e))
			}
		}
	}

	l.log.Info("load finished",
		zap.Int("batches", len(report.Batches)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("inserted", report.Inserted))
	return report
}

// LoadSource loads every file matched by src, one transaction per file.
func (l *Loader) LoadSource(ctx context.Context, src Source) ([]Report, error) {
	files, err := src.Files()
	if err != nil {
		return nil, err
	}

	var (
		reports []Report
		errs    []error
	)
	for _, path := range files {
		batch, err := ReadBatch(path, src.ValueColumn)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rep, err := l.LoadBatch(ctx, src, batch)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		reports = append(reports, rep)
	}
	return reports, errors.Join(errs...)
}

// LoadBatch inserts the new rows of batch in a single transaction.
func (l *Loader) LoadBatch(ctx context.Context, src Source, batch *Batch) (Report, error) {
	rep := Report{Source: src.Label(), File: batch.Path, Table: models.RawDatum{}.TableName()}
	macro := l.shared[src.Description]
	if macro {
		rep.Table = models.MacroDatum{}.TableName()
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !macro {
			id, err := resolveIndicator(tx, src)
			if err != nil {
				return err
			}
			if id == nil {
				return ErrNoIndicator
			}
			rep.IndicatorID = id
		}

		existing, err := existingKeys(tx, src, macro, rep.IndicatorID)
		if err != nil {
			return fmt.Errorf("existing keys: %w", err)
		}

		obs, err := observations(batch, src.ValueColumn)
		if err != nil {
			return err
		}
		fresh := obs[:0]
		for _, o := range obs {
			k := o.key()
			if existing[k] {
				rep.Duplicates++
				continue
			}
			existing[k] = true
			fresh = append(fresh, o)
		}
		rep.Inserted = len(fresh)
		if len(fresh) == 0 {
			return nil
		}

		if macro {
			err = tx.CreateInBatches(macroRows(src, fresh), insertBatchSize).Error
		} else {
			err = tx.CreateInBatches(rawRows(src, *rep.IndicatorID, fresh), insertBatchSize).Error
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %v", ErrIntegrityConflict, err)
		}
		return err
	})
	if err != nil {
		return Report{}, err
	}

	metrics.LoaderRowsInserted.WithLabelValues(rep.Table).Add(float64(rep.Inserted))
	metrics.LoaderRowsDuplicate.WithLabelValues(rep.Table).Add(float64(rep.Duplicates))
	l.log.Info("batch loaded",
		zap.String("source", rep.Source),
		zap.String("file", rep.File),
		zap.String("table", rep.Table),
		zap.Int("inserted", rep.Inserted),
		zap.Int("duplicates", rep.Duplicates))
	return rep, nil
}

// resolveIndicator matches a component description first, then the
// indicator name. It returns nil when neither matches.
func resolveIndicator(tx *gorm.DB, src Source) (*uint, error) {
	var ids []uint
	if src.Description != "" {
		err := tx.Model(&models.Indicator{}).
			Joins("JOIN componentes_indicadores c ON c.id_indicador = definiciones_indicadores.id").
			Where("c.descripcion_dato = ?", src.Description).
			Order("definiciones_indicadores.id").
			Limit(1).
			Pluck("definiciones_indicadores.id", &ids).Error
		if err != nil {
			return nil, err
		}
	}
	if len(ids) == 0 && src.Indicator != "" {
		err := tx.Model(&models.Indicator{}).
			Where("nombre = ?", src.Indicator).
			Limit(1).
			Pluck("id", &ids).Error
		if err != nil {
			return nil, err
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return &ids[0], nil
}

type keyRow struct {
	Periodo       *int
	Pais          *string
	Provincia     *string
	TamanoEmpresa *string
	Sector        *string
}

// existingKeys fetches the stored keys in scope: the indicator for processed
// raw data, the description otherwise.
func existingKeys(tx *gorm.DB, src Source, macro bool, indicatorID *uint) (map[naturalKey]bool, error) {
	q := tx.Select("periodo, pais, provincia, tamano_empresa, sector")
	switch {
	case macro:
		q = q.Model(&models.MacroDatum{}).Where("descripcion_dato = ?", src.Description)
	case src.Processed:
		q = q.Model(&models.RawDatum{}).Where("id_indicador = ?", *indicatorID)
	default:
		q = q.Model(&models.RawDatum{}).Where("descripcion_dato = ?", src.Description)
	}

	var rows []keyRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	keys := make(map[naturalKey]bool, len(rows))
	for _, r := range rows {
		keys[newKey(r.Periodo, r.Pais, r.Provincia, r.TamanoEmpresa, r.Sector)] = true
	}
	return keys, nil
}

type observation struct {
	keyRow
	Valor decimal.NullDecimal
}

func (o observation) key() naturalKey {
	return newKey(o.Periodo, o.Pais, o.Provincia, o.TamanoEmpresa, o.Sector)
}

func observations(b *Batch, valueColumn string) ([]observation, error) {
	out := make([]observation, 0, len(b.Rows))
	for i, row := range b.Rows {
		period, err := parsePeriod(row["periodo"])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		value, err := parseValue(row[valueColumn])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, observation{
			keyRow: keyRow{
				Periodo:       period,
				Pais:          nullable(row["pais"]),
				Provincia:     nullable(row["provincia"]),
				TamanoEmpresa: nullable(row["tamano_empresa"]),
				Sector:        nullable(row["sector"]),
			},
			Valor: value,
		})
	}
	return out, nil
}

func rawRows(src Source, indicatorID uint, obs []observation) []models.RawDatum {
	rows := make([]models.RawDatum, 0, len(obs))
	for _, o := range obs {
		id := indicatorID
		rows = append(rows, models.RawDatum{
			IDIndicador:     &id,
			DescripcionDato: models.String(src.Description),
			Unidad:          src.unit(),
			Valor:           o.Valor,
			Periodo:         o.Periodo,
			Pais:            o.Pais,
			Provincia:       o.Provincia,
			TamanoEmpresa:   o.TamanoEmpresa,
			Sector:          o.Sector,
			Procesado:       src.Processed,
		})
	}
	return rows
}

func macroRows(src Source, obs []observation) []models.MacroDatum {
	rows := make([]models.MacroDatum, 0, len(obs))
	for _, o := range obs {
		rows = append(rows, models.MacroDatum{
			DescripcionDato: models.String(src.Description),
			Unidad:          src.unit(),
			Valor:           o.Valor,
			Periodo:         o.Periodo,
			Pais:            o.Pais,
			Provincia:       o.Provincia,
			TamanoEmpresa:   o.TamanoEmpresa,
			Sector:          o.Sector,
		})
	}
	return rows
}

func failureReason(err error) string {
	var batchErr *BatchError
	switch {
	case errors.Is(err, ErrNoIndicator):
		return "no_indicator"
	case errors.Is(err, ErrIntegrityConflict):
		return "integrity_conflict"
	case errors.As(err, &batchErr):
		return "read_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "store_error"
	}
}

// unjoin splits an errors.Join result back into its parts.
func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
