package storage

import "sync"

// MockRepository is an in-memory implementation of Repository for testing.
type MockRepository struct {
	mu     sync.Mutex
	passes []ReconciliationPass

	// Hooks for test assertions
	SavePassCalled bool
	LastSavedPass  *ReconciliationPass

	// Error injection for testing error paths
	SavePassErr   error
	GetPassErr    error
	ListPassesErr error
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

func (m *MockRepository) SavePass(pass *ReconciliationPass) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SavePassCalled = true
	if m.SavePassErr != nil {
		return m.SavePassErr
	}

	copied := *pass
	m.LastSavedPass = &copied

	for i := range m.passes {
		if m.passes[i].ID == pass.ID {
			m.passes[i] = copied
			return nil
		}
	}
	m.passes = append(m.passes, copied)
	return nil
}

func (m *MockRepository) GetPass(id string) (*ReconciliationPass, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetPassErr != nil {
		return nil, m.GetPassErr
	}
	for i := range m.passes {
		if m.passes[i].ID == id {
			copied := m.passes[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) ListPasses(limit int) ([]ReconciliationPass, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListPassesErr != nil {
		return nil, m.ListPassesErr
	}
	if limit <= 0 {
		limit = 20
	}

	// Newest first, matching the SQLite implementation
	out := make([]ReconciliationPass, 0, limit)
	for i := len(m.passes) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.passes[i])
	}
	return out, nil
}

func (m *MockRepository) Close() error {
	return nil
}
