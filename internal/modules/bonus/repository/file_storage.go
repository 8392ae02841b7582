package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/samber/oops"

	"github.com/mlevasseur/bonus-watcher/internal/modules/bonus/domain"
)

// FileStorage implements Repository using the file system, one JSON file
// per published record under channel-specific directories.
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based record repository.
func NewFileStorage(basePath string) (Repository, error) {
	recordPath := filepath.Join(basePath, "bonuses")
	if err := os.MkdirAll(recordPath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create bonuses directory").Wrap(err)
	}

	return &FileStorage{basePath: recordPath}, nil
}

func (s *FileStorage) SaveRecord(record *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recDir := filepath.Join(s.basePath, record.ChannelID)
	if err := os.MkdirAll(recDir, 0755); err != nil {
		return oops.With("record_dir", recDir, "context", "failed to create record directory").Wrap(err)
	}

	path := filepath.Join(recDir, fmt.Sprintf("%d.json", record.MessageID))
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return oops.With("channel_id", record.ChannelID, "message_id", record.MessageID, "context", "failed to marshal record").Wrap(err)
	}

	return os.WriteFile(path, data, 0644)
}

func (s *FileStorage) GetRecent(limit int) ([]*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	channels, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Record{}, nil
		}
		return nil, oops.With("base_path", s.basePath, "context", "failed to read bonuses directory").Wrap(err)
	}

	var records []*domain.Record
	for _, ch := range channels {
		if !ch.IsDir() {
			continue
		}
		recDir := filepath.Join(s.basePath, ch.Name())
		entries, err := os.ReadDir(recDir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
				continue
			}
			data, err := os.ReadFile(filepath.Join(recDir, entry.Name()))
			if err != nil {
				continue
			}
			var record domain.Record
			if err := json.Unmarshal(data, &record); err != nil {
				continue
			}
			records = append(records, &record)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].DetectedAt.After(records[j].DetectedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
