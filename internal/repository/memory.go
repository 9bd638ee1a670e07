package repository

import (
	"context"
	"sync"

	"github.com/tidelens/seascan/internal/models"
)

// MemoryRepository keeps run history in process memory. It is the fallback
// when no database is configured, mirroring the session-scoped history of the
// original dashboard.
type MemoryRepository struct {
	mu   sync.RWMutex
	runs []models.RunRecord
}

// NewMemoryRepository creates an empty in-memory history store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) InsertRun(_ context.Context, run models.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *MemoryRepository) ListRuns(_ context.Context, limit int) ([]models.RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.RunRecord, 0, limit)
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}

func (m *MemoryRepository) ClearRuns(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = nil
	return nil
}
