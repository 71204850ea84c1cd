// Package httpapi exposes the service layer over a chi-routed JSON API.
// Requests carrying RSA-encrypted fields reference their one-time key
// pair through the X-Key-Pair-Id header; the handler decrypts the
// payload before it reaches a service.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dpavlenko/regvault/internal/logging"
	"github.com/dpavlenko/regvault/internal/server/services"
)

type Handler struct {
	keyPairs  *services.KeyPairService
	users     *services.UserService
	companies *services.CompanyService
	documents *services.DocumentService
	logger    logging.Logger
}

func NewHandler(kp *services.KeyPairService, us *services.UserService,
	cs *services.CompanyService, ds *services.DocumentService, logger logging.Logger) *Handler {
	return &Handler{
		keyPairs:  kp,
		users:     us,
		companies: cs,
		documents: ds,
		logger:    logger,
	}
}

// NewRouter builds the routing tree. Key issuance and the auth flows are
// public; everything else requires a valid access token.
func NewRouter(h *Handler, jwtSecret []byte) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Post("/keys", h.CreateKeyPair)
			r.Post("/auth/register", h.Register)
			r.Post("/auth/login", h.Login)
			r.Post("/auth/refresh", h.Refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(Authenticator(jwtSecret))

			r.Route("/companies", func(r chi.Router) {
				r.Post("/", h.CreateCompany)
				r.Get("/", h.ListCompanies)
				r.Get("/lookup", h.LookupCompany)
				r.Get("/{id}", h.GetCompany)
			})

			r.Route("/documents", func(r chi.Router) {
				r.Post("/", h.CreateDocument)
				r.Post("/{id}/uploaded", h.ConfirmDocumentUpload)
				r.Get("/{id}/url", h.GetDocumentURL)
			})
		})
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	return r
}

// CreateKeyPair issues a fresh one-time key pair and returns its id and
// public key.
func (h *Handler) CreateKeyPair(w http.ResponseWriter, r *http.Request) {
	resp, err := h.keyPairs.GenerateNewKeyPair(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "key pair generation failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}
