package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const backupTablePrefix = "metric_snapshots_backup_"

func (r *repo) Backup(ctx context.Context, db *gorm.DB, dates []time.Time, metricTypes []string, suffix string) error {
	if len(dates) == 0 || len(metricTypes) == 0 {
		return nil
	}
	table := backupTablePrefix + suffix

	if err := db.WithContext(ctx).Exec("DROP TABLE IF EXISTS " + table).Error; err != nil {
		return fmt.Errorf("drop stale backup table: %w", err)
	}
	err := db.WithContext(ctx).Exec(
		"CREATE TABLE "+table+" AS SELECT * FROM metric_snapshots WHERE snapshot_date IN ? AND metric_type IN ?",
		dates, metricTypes,
	).Error
	if err != nil {
		return fmt.Errorf("create backup table: %w", err)
	}
	return nil
}

func (r *repo) DeleteDates(ctx context.Context, db *gorm.DB, dates []time.Time, metricTypes []string) error {
	if len(dates) == 0 || len(metricTypes) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Where("snapshot_date IN ?", dates).
		Where("metric_type IN ?", metricTypes).
		Delete(&domain.MetricRow{}).Error
}

func (r *repo) Append(ctx context.Context, db *gorm.DB, rows []domain.MetricRow) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(rows, 500).Error
}

func (r *repo) LatestDate(ctx context.Context, db *gorm.DB, metricTypes []string) (time.Time, error) {
	var latest sql.NullTime
	stmt := db.WithContext(ctx).Model(&domain.MetricRow{})
	if len(metricTypes) > 0 {
		stmt = stmt.Where("metric_type IN ?", metricTypes)
	}
	err := stmt.Select("MAX(snapshot_date)").Scan(&latest).Error
	if err != nil {
		return time.Time{}, err
	}
	if !latest.Valid {
		return time.Time{}, domain.ErrNoSnapshots
	}
	return latest.Time.UTC(), nil
}

func (r *repo) RowsAt(ctx context.Context, db *gorm.DB, date time.Time, metricTypes []string) ([]domain.MetricRow, error) {
	var rows []domain.MetricRow
	stmt := db.WithContext(ctx).
		Model(&domain.MetricRow{}).
		Where("snapshot_date = ?", date)
	if len(metricTypes) > 0 {
		stmt = stmt.Where("metric_type IN ?", metricTypes)
	}
	err := stmt.Order("metric_type asc, rank asc, id asc").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) DistinctDates(ctx context.Context, db *gorm.DB, metricTypes []string, since time.Time) ([]time.Time, error) {
	var dates []time.Time
	stmt := db.WithContext(ctx).
		Model(&domain.MetricRow{}).
		Where("snapshot_date >= ?", since)
	if len(metricTypes) > 0 {
		stmt = stmt.Where("metric_type IN ?", metricTypes)
	}
	err := stmt.
		Distinct("snapshot_date").
		Order("snapshot_date desc").
		Pluck("snapshot_date", &dates).Error
	if err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *repo) InsertRun(ctx context.Context, db *gorm.DB, run *domain.Run) error {
	if run == nil {
		return errors.New("nil snapshot run")
	}
	return db.WithContext(ctx).Create(run).Error
}
