package serviceimpl

import (
	"context"
	"sync"

	"face-attendance/domain/repositories"
	"face-attendance/domain/services"
	"face-attendance/pkg/logger"
)

// LabelMapperImpl holds the labelId projection of the registry in memory.
// Refresh swaps the whole map under the write lock so concurrent Resolve
// calls always see a consistent snapshot.
type LabelMapperImpl struct {
	studentRepo repositories.StudentRepository

	mu      sync.RWMutex
	entries map[int]services.LabelEntry
}

func NewLabelMapper(studentRepo repositories.StudentRepository) services.LabelMapper {
	return &LabelMapperImpl{
		studentRepo: studentRepo,
		entries:     make(map[int]services.LabelEntry),
	}
}

func (m *LabelMapperImpl) Refresh(ctx context.Context) error {
	students, err := m.studentRepo.List(ctx)
	if err != nil {
		return err
	}

	entries := make(map[int]services.LabelEntry, len(students))
	for _, s := range students {
		entries[s.LabelID] = services.LabelEntry{
			Name:       s.Name,
			Department: s.Department,
		}
	}

	m.mu.Lock()
	m.entries = entries
	m.mu.Unlock()

	logger.Recognition("label_map_refreshed", "Label map refreshed", map[string]interface{}{
		"labels": len(entries),
	})

	return nil
}

func (m *LabelMapperImpl) Resolve(label int) (services.LabelEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[label]
	return entry, ok
}

func (m *LabelMapperImpl) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
