package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/oklog/ulid/v2"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/clock"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/config"
	obsmetrics "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/observability/metrics"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type WriterParams struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cfg   config.Config
	Clock clock.Clock
	Repo  domain.Repository
}

type writer struct {
	db     *gorm.DB
	log    *zap.Logger
	outDir string
	clock  clock.Clock
	repo   domain.Repository
}

func NewWriter(p WriterParams) domain.Writer {
	return &writer{
		db:     p.DB,
		log:    p.Log.Named("snapshot.writer"),
		outDir: p.Cfg.Snapshot.OutputDir,
		clock:  p.Clock,
		repo:   p.Repo,
	}
}

// Write replaces the metric rows for the snapshot dates carried by rows.
// The existing rows are backed up to a side table, deleted, and the new rows
// appended, all inside one transaction. A dry run routes the rows to a CSV
// file instead and leaves the database untouched.
func (w *writer) Write(ctx context.Context, job string, rows []domain.MetricRow, opts domain.WriteOptions) (domain.WriteResult, error) {
	start := w.clock.Now()
	log := w.log.With(zap.String("job", job))

	if len(rows) == 0 {
		log.Warn("no rows to snapshot, skipping write")
		w.recordRun(ctx, job, start, time.Time{}, 0, opts.DryRun, domain.RunStatusSkipped, domain.ErrEmptySnapshot)
		return domain.WriteResult{}, domain.ErrEmptySnapshot
	}

	dates, metricTypes, err := collectRowKeys(rows)
	if err != nil {
		log.Error("snapshot rows failed validation", zap.Error(err))
		w.recordRun(ctx, job, start, time.Time{}, len(rows), opts.DryRun, domain.RunStatusFailed, err)
		return domain.WriteResult{}, err
	}

	if opts.DryRun {
		path, err := w.dumpCSV("dry_run_"+slug.Make(job)+"_"+start.Format("20060102"), rows)
		if err != nil {
			w.recordRun(ctx, job, start, dates[0], len(rows), true, domain.RunStatusFailed, err)
			return domain.WriteResult{}, fmt.Errorf("write dry-run csv: %w", err)
		}
		log.Info("dry run, rows written to csv",
			zap.String("path", path),
			zap.Int("rows", len(rows)),
		)
		runID := w.recordRun(ctx, job, start, dates[0], len(rows), true, domain.RunStatusDryRun, nil)
		return domain.WriteResult{RunID: runID, Rows: len(rows), DryRun: true, CSVPath: path}, nil
	}

	// One backup table per job and day, so same-date runs of other jobs
	// never clobber each other's safety copy.
	backupSuffix := tableSuffix(job) + "_" + start.Format("20060102")
	txErr := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := w.repo.Backup(ctx, tx, dates, metricTypes, backupSuffix); err != nil {
			return err
		}
		if err := w.repo.DeleteDates(ctx, tx, dates, metricTypes); err != nil {
			return err
		}
		return w.repo.Append(ctx, tx, rows)
	})
	if txErr != nil {
		// Keep the computed rows recoverable even when the store is down.
		path, csvErr := w.dumpCSV("failed_snapshot_"+slug.Make(job)+"_"+strconv.FormatInt(start.Unix(), 10), rows)
		if csvErr != nil {
			log.Error("failed to write fallback csv", zap.Error(csvErr))
		} else {
			log.Error("snapshot write failed, rows dumped to csv",
				zap.String("path", path),
				zap.Error(txErr),
			)
		}
		obsmetrics.Reporting().IncJobError(job)
		w.recordRun(ctx, job, start, dates[0], len(rows), false, domain.RunStatusFailed, txErr)
		return domain.WriteResult{CSVPath: path}, fmt.Errorf("write snapshot: %w", txErr)
	}

	obsmetrics.Reporting().AddRowsWritten(job, len(rows))
	obsmetrics.Reporting().ObserveJobDuration(job, w.clock.Now().Sub(start))
	log.Info("snapshot written",
		zap.Time("snapshot_date", dates[0]),
		zap.Int("rows", len(rows)),
	)
	runID := w.recordRun(ctx, job, start, dates[0], len(rows), false, domain.RunStatusWritten, nil)
	return domain.WriteResult{RunID: runID, Rows: len(rows)}, nil
}

// collectRowKeys validates every row and returns the distinct snapshot dates
// and metric types. Replacement is scoped to both, so a job only ever touches
// the rows it owns.
func collectRowKeys(rows []domain.MetricRow) ([]time.Time, []string, error) {
	seenDates := make(map[time.Time]struct{}, 2)
	dates := make([]time.Time, 0, 2)
	seenTypes := make(map[string]struct{}, 16)
	metricTypes := make([]string, 0, 16)
	for _, row := range rows {
		if row.SnapshotDate.IsZero() || row.MetricType == "" {
			return nil, nil, domain.ErrInvalidSnapshotRow
		}
		date := row.SnapshotDate.UTC()
		if _, ok := seenDates[date]; !ok {
			seenDates[date] = struct{}{}
			dates = append(dates, date)
		}
		if _, ok := seenTypes[row.MetricType]; !ok {
			seenTypes[row.MetricType] = struct{}{}
			metricTypes = append(metricTypes, row.MetricType)
		}
	}
	return dates, metricTypes, nil
}

// tableSuffix turns a job name into a safe SQL identifier fragment.
func tableSuffix(job string) string {
	return strings.ReplaceAll(slug.Make(job), "-", "_")
}

func (w *writer) recordRun(ctx context.Context, job string, started time.Time, date time.Time, rows int, dryRun bool, status string, runErr error) string {
	run := &domain.Run{
		RunID:        ulid.Make().String(),
		Job:          job,
		SnapshotDate: date,
		Rows:         rows,
		DryRun:       dryRun,
		Status:       status,
		StartedAt:    started,
		FinishedAt:   w.clock.Now(),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := w.repo.InsertRun(ctx, w.db, run); err != nil {
		w.log.Warn("failed to record snapshot run", zap.Error(err))
		return ""
	}
	return run.RunID
}

func (w *writer) dumpCSV(name string, rows []domain.MetricRow) (string, error) {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(w.outDir, name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := []string{"snapshot_date", "metric_type", "id", "label", "count", "value_aud", "percentage", "rank"}
	if err := cw.Write(header); err != nil {
		return "", err
	}
	for _, row := range rows {
		record := []string{
			row.SnapshotDate.UTC().Format("2006-01-02"),
			row.MetricType,
			row.EntityID,
			row.Label,
			formatNullInt(row.Count),
			formatNullFloat(row.ValueAUD),
			formatNullFloat(row.Percentage),
			formatNullInt(row.Rank),
		}
		if err := cw.Write(record); err != nil {
			return "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}
	return path, nil
}

func formatNullInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatNullFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
