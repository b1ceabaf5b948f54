package profile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bz888/loanchat/internal/domain"
	"github.com/bz888/loanchat/internal/logger"
	"github.com/bz888/loanchat/internal/session"
)

type Backend interface {
	GetProfileJSON(ctx context.Context, id int) (json.RawMessage, error)
	GetUserLoans(ctx context.Context, id int) ([]domain.Loan, error)
}

// View is what the profile screen renders.
type View struct {
	LoggedIn bool
	Customer *domain.Customer
	// Stale is set when the refetch failed and the cached copy is shown.
	Stale      bool
	ProfileErr error
	Loans      []domain.Loan
	LoansErr   error
}

type Loader struct {
	backend     Backend
	store       session.Store
	localLogger *logger.Logger
}

func NewLoader(backend Backend, store session.Store) *Loader {
	return &Loader{backend: backend, store: store, localLogger: logger.NewLogger("profile")}
}

// Load reads the cached customer, refreshes it from the backend and fetches
// the loans. Without a cached customer no request is made.
func (l *Loader) Load(ctx context.Context) (*View, error) {
	cached, err := l.store.Customer(ctx)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if cached == nil {
		return &View{LoggedIn: false}, nil
	}

	view := &View{LoggedIn: true, Customer: cached}

	// the fresh record replaces the cache as sent, unknown fields included
	raw, err := l.backend.GetProfileJSON(ctx, cached.ID)
	if err == nil {
		var fresh *domain.Customer
		if fresh, err = l.store.SetCustomerJSON(ctx, raw); err == nil {
			view.Customer = fresh
		}
	}
	if err != nil {
		l.localLogger.Warn("Profile refetch failed, using cached copy:", err)
		view.Stale = true
		view.ProfileErr = err
	}

	loans, err := l.backend.GetUserLoans(ctx, view.Customer.ID)
	if err != nil {
		l.localLogger.Warn("Loans fetch failed:", err)
		view.LoansErr = err
		view.Loans = []domain.Loan{}
	} else {
		view.Loans = loans
	}
	return view, nil
}
