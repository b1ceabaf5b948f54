package auth

import (
	"context"
	"testing"

	"github.com/bz888/loanchat/internal/api"
	"github.com/bz888/loanchat/internal/domain"
	"github.com/bz888/loanchat/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBackend struct {
	mock.Mock
	loadingSeen bool
	svc         *Service
}

func (m *MockBackend) Signup(ctx context.Context, req api.SignupRequest) (*domain.Customer, error) {
	m.loadingSeen = m.svc.Loading()
	args := m.Called(req)
	c, _ := args.Get(0).(*domain.Customer)
	return c, args.Error(1)
}

func (m *MockBackend) Login(ctx context.Context, req api.LoginRequest) (*domain.Customer, error) {
	m.loadingSeen = m.svc.Loading()
	args := m.Called(req)
	c, _ := args.Get(0).(*domain.Customer)
	return c, args.Error(1)
}

func newService() (*Service, *MockBackend, *session.MemoryStore) {
	backend := new(MockBackend)
	store := session.NewMemory()
	svc := NewService(backend, store)
	backend.svc = svc
	return svc, backend, store
}

func validForm() SignupForm {
	return SignupForm{
		Name:          " Simran Kaur ",
		Age:           "29",
		City:          "Delhi",
		Phone:         "9000000001",
		Salary:        "72000",
		Email:         "simran@example.com",
		Password:      "pw",
		PANNumber:     "ABCDE1234F",
		AadhaarNumber: "111122223333",
	}
}

func TestSignupCoercesForm(t *testing.T) {
	svc, backend, store := newService()
	created := &domain.Customer{ID: 11, Name: "Simran Kaur", Age: 29, Salary: 72000, Email: "simran@example.com"}
	backend.On("Signup", mock.MatchedBy(func(req api.SignupRequest) bool {
		return req.Name == "Simran Kaur" && req.Age == 29 && req.Salary == 72000
	})).Return(created, nil).Once()

	got, err := svc.Signup(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.True(t, backend.loadingSeen)
	assert.False(t, svc.Loading())

	// the backend client owns the cache write
	cached, err := store.Customer(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cached)
	backend.AssertExpectations(t)
}

func TestSignupRejectsBadFields(t *testing.T) {
	svc, backend, _ := newService()

	form := validForm()
	form.Age = "twenty"
	_, err := svc.Signup(context.Background(), form)
	assert.Equal(t, "age must be a whole number", ErrorText(err))

	form = validForm()
	form.Salary = "lots"
	_, err = svc.Signup(context.Background(), form)
	assert.Equal(t, "salary must be a number", ErrorText(err))

	form = validForm()
	form.PANNumber = "  "
	_, err = svc.Signup(context.Background(), form)
	assert.Equal(t, "pan_number is required", ErrorText(err))

	backend.AssertNotCalled(t, "Signup", mock.Anything)
}

func TestLoginReturnsCustomer(t *testing.T) {
	svc, backend, store := newService()
	want := &domain.Customer{ID: 4, Name: "Aarav Mehta", Email: "aarav@example.com", City: "Mumbai", PreapprovedLimit: 500000, CreditScore: 760}
	backend.On("Login", api.LoginRequest{Email: "aarav@example.com", Password: "pw"}).Return(want, nil).Once()

	got, err := svc.Login(context.Background(), LoginForm{Email: "aarav@example.com ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	cached, err := store.Customer(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestLoginFailure(t *testing.T) {
	svc, backend, store := newService()
	backend.On("Login", mock.Anything).Return(nil, &api.Error{StatusCode: 401, Message: "Invalid credentials"}).Once()

	_, err := svc.Login(context.Background(), LoginForm{Email: "a@b.c", Password: "x"})
	assert.Equal(t, "Invalid credentials", ErrorText(err))
	assert.False(t, svc.Loading())

	cached, _ := store.Customer(context.Background())
	assert.Nil(t, cached)

	_, err = svc.Login(context.Background(), LoginForm{Password: "x"})
	assert.Equal(t, "email is required", ErrorText(err))
}

func TestLogoutClearsSession(t *testing.T) {
	svc, _, store := newService()
	ctx := context.Background()
	require.NoError(t, store.SetCustomer(ctx, &domain.Customer{ID: 1}))
	require.NoError(t, store.SetSessionID(ctx, "s"))

	require.NoError(t, svc.Logout(ctx))
	sess, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Session{}, sess)
}
