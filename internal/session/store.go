// Package session keeps the client side session: the cached customer and the
// chat session id issued by the backend.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bz888/loanchat/internal/domain"
)

// Keys under which the session is persisted.
const (
	KeyCustomer  = "customer"
	KeySessionID = "session_id"
)

var ErrClosed = errors.New("session store closed")

// Store is the single place session state is read and written.
type Store interface {
	Load(ctx context.Context) (domain.Session, error)

	Customer(ctx context.Context) (*domain.Customer, error)
	SetCustomer(ctx context.Context, customer *domain.Customer) error
	// CustomerJSON returns the stored customer record unchanged.
	CustomerJSON(ctx context.Context) (json.RawMessage, error)
	// SetCustomerJSON stores a backend customer object verbatim, unknown
	// fields and nulls included, and returns its decoded view.
	SetCustomerJSON(ctx context.Context, raw json.RawMessage) (*domain.Customer, error)

	SessionID(ctx context.Context) (string, error)
	SetSessionID(ctx context.Context, id string) error

	// Clear removes every key, as on logout.
	Clear(ctx context.Context) error
	// ClearSessionID forgets the chat session but keeps the customer.
	ClearSessionID(ctx context.Context) error

	Close() error
}

// kv is the raw key/value layer both implementations share the codec over.
type kv interface {
	get(ctx context.Context, key string) (string, bool, error)
	set(ctx context.Context, key, value string) error
	del(ctx context.Context, keys ...string) error
}

type codec struct {
	kv kv
}

func (c codec) Load(ctx context.Context) (domain.Session, error) {
	raw, err := c.CustomerJSON(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	customer, err := decodeCustomer(raw)
	if err != nil {
		return domain.Session{}, err
	}
	id, err := c.SessionID(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{SessionID: id, Customer: customer, CustomerJSON: raw}, nil
}

func (c codec) Customer(ctx context.Context) (*domain.Customer, error) {
	raw, err := c.CustomerJSON(ctx)
	if err != nil {
		return nil, err
	}
	return decodeCustomer(raw)
}

func (c codec) CustomerJSON(ctx context.Context) (json.RawMessage, error) {
	raw, ok, err := c.kv.get(ctx, KeyCustomer)
	if err != nil || !ok || raw == "" {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (c codec) SetCustomerJSON(ctx context.Context, raw json.RawMessage) (*domain.Customer, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, c.kv.del(ctx, KeyCustomer)
	}
	customer, err := decodeCustomer(raw)
	if err != nil {
		return nil, err
	}
	if err := c.kv.set(ctx, KeyCustomer, string(raw)); err != nil {
		return nil, err
	}
	return customer, nil
}

func decodeCustomer(raw json.RawMessage) (*domain.Customer, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var customer domain.Customer
	if err := json.Unmarshal(raw, &customer); err != nil {
		return nil, fmt.Errorf("decode customer: %w", err)
	}
	return &customer, nil
}

func (c codec) SetCustomer(ctx context.Context, customer *domain.Customer) error {
	if customer == nil {
		return c.kv.del(ctx, KeyCustomer)
	}
	data, err := json.Marshal(customer)
	if err != nil {
		return fmt.Errorf("encode customer: %w", err)
	}
	return c.kv.set(ctx, KeyCustomer, string(data))
}

func (c codec) SessionID(ctx context.Context) (string, error) {
	id, _, err := c.kv.get(ctx, KeySessionID)
	return id, err
}

func (c codec) SetSessionID(ctx context.Context, id string) error {
	if id == "" {
		return c.kv.del(ctx, KeySessionID)
	}
	return c.kv.set(ctx, KeySessionID, id)
}

func (c codec) Clear(ctx context.Context) error {
	return c.kv.del(ctx, KeyCustomer, KeySessionID)
}

func (c codec) ClearSessionID(ctx context.Context) error {
	return c.kv.del(ctx, KeySessionID)
}
