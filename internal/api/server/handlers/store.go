package handlers

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bz888/loanchat/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var (
	errEmailTaken        = errors.New("email already registered")
	errInvalidCredential = errors.New("invalid credentials")
)

type account struct {
	customer     domain.Customer
	passwordHash []byte
}

// CRM is the in-memory customer and loan book of the dev backend.
type CRM struct {
	mu       sync.RWMutex
	nextID   int
	accounts map[int]*account
	byEmail  map[string]int
	loans    map[int][]domain.Loan
}

func NewCRM() *CRM {
	return &CRM{
		nextID:   1,
		accounts: make(map[int]*account),
		byEmail:  make(map[string]int),
		loans:    make(map[int][]domain.Loan),
	}
}

// Seed adds a demo customer that can log in with email/password.
func (c *CRM) Seed(customer domain.Customer, password string) (*domain.Customer, error) {
	return c.SignUp(customer, password)
}

func (c *CRM) SignUp(customer domain.Customer, password string) (*domain.Customer, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(customer.Email))
	if _, ok := c.byEmail[email]; ok {
		return nil, errEmailTaken
	}

	customer.ID = c.nextID
	c.nextID++
	if customer.CreditScore == 0 {
		customer.CreditScore = creditScoreFor(customer.Salary)
	}
	if customer.PreapprovedLimit == 0 {
		customer.PreapprovedLimit = customer.Salary * 10
	}

	c.accounts[customer.ID] = &account{customer: customer, passwordHash: hash}
	c.byEmail[email] = customer.ID
	out := customer
	return &out, nil
}

func (c *CRM) Authenticate(email, password string) (*domain.Customer, error) {
	c.mu.RLock()
	id, ok := c.byEmail[strings.ToLower(strings.TrimSpace(email))]
	var acc *account
	if ok {
		acc = c.accounts[id]
	}
	c.mu.RUnlock()

	if acc == nil || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) != nil {
		return nil, errInvalidCredential
	}
	out := acc.customer
	return &out, nil
}

func (c *CRM) Customer(id int) (*domain.Customer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	acc, ok := c.accounts[id]
	if !ok {
		return nil, false
	}
	out := acc.customer
	return &out, true
}

func (c *CRM) Loans(id int) []domain.Loan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Loan, len(c.loans[id]))
	copy(out, c.loans[id])
	return out
}

// AddLoan appends loan for the customer, assigning "<user>_<n>" as its id.
func (c *CRM) AddLoan(id int, loan domain.Loan) domain.Loan {
	c.mu.Lock()
	defer c.mu.Unlock()
	loan.ID = fmt.Sprintf("%d_%d", id, len(c.loans[id])+1)
	c.loans[id] = append(c.loans[id], loan)
	if acc, ok := c.accounts[id]; ok {
		acc.customer.ExistingLoans++
	}
	return loan
}

func creditScoreFor(salary float64) int {
	switch {
	case salary >= 100000:
		return 800
	case salary >= 50000:
		return 740
	case salary > 0:
		return 680
	}
	return 650
}
