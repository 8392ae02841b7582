package repository

import "github.com/mlevasseur/bonus-watcher/internal/modules/bonus/domain"

// Repository persists the history of published bonus records.
type Repository interface {
	SaveRecord(record *domain.Record) error
	GetRecent(limit int) ([]*domain.Record, error)
}
