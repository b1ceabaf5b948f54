package profile

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/bz888/loanchat/internal/domain"
	"github.com/bz888/loanchat/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) GetProfileJSON(ctx context.Context, id int) (json.RawMessage, error) {
	args := m.Called(id)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *MockBackend) GetUserLoans(ctx context.Context, id int) ([]domain.Loan, error) {
	args := m.Called(id)
	loans, _ := args.Get(0).([]domain.Loan)
	return loans, args.Error(1)
}

func TestLoadNotLoggedInMakesNoCalls(t *testing.T) {
	backend := new(MockBackend)
	view, err := NewLoader(backend, session.NewMemory()).Load(context.Background())
	require.NoError(t, err)
	assert.False(t, view.LoggedIn)
	assert.Nil(t, view.Customer)
	backend.AssertNotCalled(t, "GetProfileJSON", mock.Anything)
	backend.AssertNotCalled(t, "GetUserLoans", mock.Anything)
}

func TestLoadRefreshesCache(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemory()
	require.NoError(t, store.SetCustomer(ctx, &domain.Customer{ID: 5, Name: "Rohan", CreditScore: 700}))

	fresh := &domain.Customer{ID: 5, Name: "Rohan Gupta", CreditScore: 745}
	loans := []domain.Loan{{ID: "5_1", Name: "Personal Loan", Amount: 300000, Status: "active"}}
	backend := new(MockBackend)
	backend.On("GetProfileJSON", 5).Return(json.RawMessage(`{"id":5,"name":"Rohan Gupta","credit_score":745}`), nil).Once()
	backend.On("GetUserLoans", 5).Return(loans, nil).Once()

	view, err := NewLoader(backend, store).Load(ctx)
	require.NoError(t, err)
	assert.True(t, view.LoggedIn)
	assert.False(t, view.Stale)
	assert.Equal(t, fresh, view.Customer)
	assert.Equal(t, loans, view.Loans)

	cached, err := store.Customer(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, cached)
	backend.AssertExpectations(t)
}

func TestLoadFallsBackToCache(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemory()
	cachedCustomer := &domain.Customer{ID: 8, Name: "Priya"}
	require.NoError(t, store.SetCustomer(ctx, cachedCustomer))

	backend := new(MockBackend)
	backend.On("GetProfileJSON", 8).Return(nil, errors.New("connection refused")).Once()
	backend.On("GetUserLoans", 8).Return(nil, errors.New("connection refused")).Once()

	view, err := NewLoader(backend, store).Load(ctx)
	require.NoError(t, err)
	assert.True(t, view.Stale)
	assert.Equal(t, cachedCustomer, view.Customer)
	assert.Error(t, view.ProfileErr)
	assert.Error(t, view.LoansErr)
	assert.Empty(t, view.Loans)
	backend.AssertExpectations(t)
}

func TestLoadKeepsRefetchedRecordVerbatim(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemory()
	require.NoError(t, store.SetCustomer(ctx, &domain.Customer{ID: 3, Name: "Arjun", CreditScore: 690}))

	record := `{"id":3,"name":"Arjun Patel","credit_score":null,"requested_loan":300000}`
	backend := new(MockBackend)
	backend.On("GetProfileJSON", 3).Return(json.RawMessage(record), nil).Once()
	backend.On("GetUserLoans", 3).Return([]domain.Loan{}, nil).Once()

	view, err := NewLoader(backend, store).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Arjun Patel", view.Customer.Name)
	assert.Zero(t, view.Customer.CreditScore)

	stored, err := store.CustomerJSON(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, record, string(stored))
	backend.AssertExpectations(t)
}
