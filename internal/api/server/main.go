// Package server is a local stand-in for the loan backend. It speaks the same
// HTTP contract with canned behaviour and keeps everything in memory.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bz888/loanchat/internal/api/server/handlers"
	"github.com/bz888/loanchat/internal/domain"
	"github.com/bz888/loanchat/internal/logger"
)

var (
	LocalLogger *logger.Logger
)

// Demo credentials seeded into every dev backend.
const (
	DemoEmail    = "demo@loanchat.local"
	DemoPassword = "demo"
)

func Init() {
	LocalLogger = logger.NewLogger("Server")
}

// NewHandler builds the handler with the demo customer seeded.
func NewHandler() (*handlers.Handler, error) {
	crm := handlers.NewCRM()
	_, err := crm.Seed(domain.Customer{
		Name:          "Aarav Mehta",
		Email:         DemoEmail,
		City:          "Mumbai",
		Phone:         "9820000000",
		Age:           32,
		Salary:        95000,
		PANNumber:     "ABCPM1234K",
		AadhaarNumber: "234523452345",
		CreditScore:   782,
	}, DemoPassword)
	if err != nil {
		return nil, err
	}
	return handlers.NewHandler(crm), nil
}

// Run serves the dev backend on addr until ctx is cancelled.
func Run(ctx context.Context, addr string) error {
	if LocalLogger == nil {
		Init()
	}

	handler, err := NewHandler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	LocalLogger.Info("Dev backend started on http://" + addr + "/")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		LocalLogger.Error("Error starting server:", err)
		return err
	}
	return nil
}
