package memory

import (
	"context"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/compoff"
)

type CompOffRepository struct {
	db *DB
}

func NewCompOffRepository(db *DB) *CompOffRepository {
	return &CompOffRepository{db: db}
}

func (r *CompOffRepository) CreateHistory(ctx context.Context, h *compoff.History) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	h.ID = r.db.nextID("co")
	h.CreatedAt = time.Now()
	r.db.st.compOff = append(r.db.st.compOff, *h)
	return nil
}

func (r *CompOffRepository) ListHistory(ctx context.Context, employeeID string) ([]compoff.History, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []compoff.History
	for i := len(r.db.st.compOff) - 1; i >= 0; i-- {
		if h := r.db.st.compOff[i]; h.EmployeeID == employeeID {
			out = append(out, h)
		}
	}
	return out, nil
}
