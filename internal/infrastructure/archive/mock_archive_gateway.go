package archive

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stintd/stint/internal/application/port/output"
)

// MockArchiveGateway is an in-memory output.ArchiveGateway for tests
type MockArchiveGateway struct {
	mu    sync.Mutex
	saved map[string]output.SaveArchiveRequest
	times map[string]time.Time

	// SaveErr and ListErr, when set, are returned by the matching call
	SaveErr error
	ListErr error
}

// NewMockArchiveGateway creates an empty mock gateway
func NewMockArchiveGateway() *MockArchiveGateway {
	return &MockArchiveGateway{
		saved: make(map[string]output.SaveArchiveRequest),
		times: make(map[string]time.Time),
	}
}

// SaveArchive records the request in memory
func (m *MockArchiveGateway) SaveArchive(_ context.Context, req output.SaveArchiveRequest) (*output.ArchiveMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return nil, m.SaveErr
	}

	savedAt := time.Now().UTC()
	m.saved[req.Name] = req
	m.times[req.Name] = savedAt

	return &output.ArchiveMetadata{
		Name:      req.Name,
		Location:  "mock://" + req.Name,
		SizeBytes: int64(len(req.Content)),
		SavedAt:   savedAt,
	}, nil
}

// ListArchives lists recorded saves, newest first
func (m *MockArchiveGateway) ListArchives(_ context.Context) ([]*output.ArchiveMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}

	archives := make([]*output.ArchiveMetadata, 0, len(m.saved))
	for name, req := range m.saved {
		archives = append(archives, &output.ArchiveMetadata{
			Name:      name,
			Location:  "mock://" + name,
			SizeBytes: int64(len(req.Content)),
			SavedAt:   m.times[name],
		})
	}

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].SavedAt.After(archives[j].SavedAt)
	})
	return archives, nil
}

// Saved returns a recorded save request by name
func (m *MockArchiveGateway) Saved(name string) (output.SaveArchiveRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.saved[name]
	return req, ok
}
