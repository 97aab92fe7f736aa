package postgres

import (
	"context"
	"database/sql"

	"github.com/gss09/RegionMonitor/module/core/domain"
	"github.com/gss09/RegionMonitor/module/core/internal/repository/database"
)

var _ database.EntryRepository = (*EntryRepo)(nil)

type EntryRepo struct {
	db *sql.DB
}

func NewEntryRepo(db *sql.DB) *EntryRepo {
	return &EntryRepo{db: db}
}

func (r *EntryRepo) Insert(ctx context.Context, e *domain.RegionEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO region_entries (region, message, source, foreground, notification_scheduled, occurred_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.Region), e.Message, string(e.Source), e.Foreground, e.NotificationScheduled, e.OccurredAt,
	)
	return err
}

func (r *EntryRepo) List(ctx context.Context, limit int) ([]domain.RegionEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT region, message, source, foreground, notification_scheduled, occurred_at FROM region_entries ORDER BY occurred_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.RegionEntry
	for rows.Next() {
		var (
			e              domain.RegionEntry
			region, source string
		)
		if err := rows.Scan(&region, &e.Message, &source, &e.Foreground, &e.NotificationScheduled, &e.OccurredAt); err != nil {
			return nil, err
		}
		e.Region = domain.RegionName(region)
		e.Source = domain.EntrySource(source)
		results = append(results, e)
	}
	return results, rows.Err()
}
