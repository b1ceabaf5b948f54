// Package auth backs the signup and login screens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/bz888/loanchat/internal/api"
	"github.com/bz888/loanchat/internal/domain"
	"github.com/bz888/loanchat/internal/logger"
	"github.com/bz888/loanchat/internal/session"
)

// Backend is the part of the API client the auth screens use.
type Backend interface {
	Signup(ctx context.Context, req api.SignupRequest) (*domain.Customer, error)
	Login(ctx context.Context, req api.LoginRequest) (*domain.Customer, error)
}

// FieldError reports a form field that could not be used as typed.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// SignupForm holds the signup fields exactly as typed.
type SignupForm struct {
	Name          string
	Age           string
	City          string
	Phone         string
	Salary        string
	Email         string
	Password      string
	PANNumber     string
	AadhaarNumber string
}

type LoginForm struct {
	Email    string
	Password string
}

type Service struct {
	backend Backend
	store   session.Store
	loading atomic.Bool

	localLogger *logger.Logger
}

func NewService(backend Backend, store session.Store) *Service {
	return &Service{
		backend:     backend,
		store:       store,
		localLogger: logger.NewLogger("auth"),
	}
}

// Loading reports whether a signup or login call is in flight.
func (s *Service) Loading() bool {
	return s.loading.Load()
}

// Request converts the typed form into the signup payload, coercing the
// numeric fields.
func (f SignupForm) Request() (api.SignupRequest, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"name", f.Name}, {"age", f.Age}, {"city", f.City}, {"phone", f.Phone},
		{"salary", f.Salary}, {"email", f.Email}, {"password", f.Password},
		{"pan_number", f.PANNumber}, {"aadhaar_number", f.AadhaarNumber},
	}
	for _, fld := range fields {
		if strings.TrimSpace(fld.value) == "" {
			return api.SignupRequest{}, &FieldError{Field: fld.name, Reason: "is required"}
		}
	}

	age, err := strconv.Atoi(strings.TrimSpace(f.Age))
	if err != nil {
		return api.SignupRequest{}, &FieldError{Field: "age", Reason: "must be a whole number"}
	}
	salary, err := strconv.ParseFloat(strings.TrimSpace(f.Salary), 64)
	if err != nil {
		return api.SignupRequest{}, &FieldError{Field: "salary", Reason: "must be a number"}
	}

	return api.SignupRequest{
		Name:          strings.TrimSpace(f.Name),
		Age:           age,
		City:          strings.TrimSpace(f.City),
		Phone:         strings.TrimSpace(f.Phone),
		Salary:        salary,
		Email:         strings.TrimSpace(f.Email),
		Password:      f.Password,
		PANNumber:     strings.TrimSpace(f.PANNumber),
		AadhaarNumber: strings.TrimSpace(f.AadhaarNumber),
	}, nil
}

// Signup creates the account. The backend client caches the returned customer.
func (s *Service) Signup(ctx context.Context, form SignupForm) (*domain.Customer, error) {
	req, err := form.Request()
	if err != nil {
		return nil, err
	}

	s.loading.Store(true)
	defer s.loading.Store(false)

	customer, err := s.backend.Signup(ctx, req)
	if err != nil {
		s.localLogger.Warn("Signup failed:", err)
		return nil, err
	}
	s.localLogger.Infow("signed up", "customer_id", customer.ID)
	return customer, nil
}

// Login authenticates. The backend client caches the returned customer.
func (s *Service) Login(ctx context.Context, form LoginForm) (*domain.Customer, error) {
	if strings.TrimSpace(form.Email) == "" {
		return nil, &FieldError{Field: "email", Reason: "is required"}
	}
	if form.Password == "" {
		return nil, &FieldError{Field: "password", Reason: "is required"}
	}

	s.loading.Store(true)
	defer s.loading.Store(false)

	customer, err := s.backend.Login(ctx, api.LoginRequest{Email: strings.TrimSpace(form.Email), Password: form.Password})
	if err != nil {
		s.localLogger.Warn("Login failed:", err)
		return nil, err
	}
	s.localLogger.Infow("logged in", "customer_id", customer.ID)
	return customer, nil
}

// Logout forgets the customer and the chat session.
func (s *Service) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// ErrorText is the single line shown under a form.
func ErrorText(err error) string {
	var fieldErr *FieldError
	var apiErr *api.Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fieldErr):
		return fieldErr.Error()
	case errors.As(err, &apiErr):
		return apiErr.Message
	default:
		return err.Error()
	}
}
