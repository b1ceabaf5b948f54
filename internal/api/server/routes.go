package server

import (
	"net/http"

	"github.com/bz888/loanchat/internal/api/server/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *handlers.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))

	r.Post("/chat", handler.ChatHandler)
	r.Post("/upload-salary-slip", handler.UploadSalarySlipHandler)
	r.Post("/upload-pan", handler.UploadPanHandler)
	r.Post("/upload-aadhaar", handler.UploadAadhaarHandler)
	r.Get("/download-sanction/{filename}", handler.DownloadSanctionHandler)

	r.Route("/crm", func(r chi.Router) {
		r.Post("/signup", handler.SignupHandler)
		r.Post("/login", handler.LoginHandler)
	})

	r.Get("/profile/{id}", handler.ProfileHandler)

	r.Route("/offer-mart/user/{id}/loans", func(r chi.Router) {
		r.Get("/", handler.LoansHandler)
		r.Post("/", handler.AddLoanHandler)
	})
	return r
}
