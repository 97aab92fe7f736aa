package database

import (
	"context"

	"github.com/gss09/RegionMonitor/module/core/domain"
)

type EntryRepository interface {
	Insert(ctx context.Context, entry *domain.RegionEntry) error
	List(ctx context.Context, limit int) ([]domain.RegionEntry, error)
}
