package storage

// Repository defines the audit storage interface. Keeping it narrow makes
// swapping implementations (SQLite today, Postgres later) and testing with
// the in-memory mock straightforward.
type Repository interface {
	// SavePass records a completed reconciliation pass.
	SavePass(pass *ReconciliationPass) error

	// GetPass retrieves a pass by ID; nil when not found.
	GetPass(id string) (*ReconciliationPass, error)

	// ListPasses returns the most recent passes, newest first.
	ListPasses(limit int) ([]ReconciliationPass, error)

	Close() error
}
