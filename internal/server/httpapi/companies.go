package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dpavlenko/regvault/internal/common"
	"github.com/dpavlenko/regvault/internal/server/models"
	"github.com/dpavlenko/regvault/internal/server/services"
)

// CreateCompanyRequest carries the registration number RSA-encrypted
// under a one-time key pair.
type CreateCompanyRequest struct {
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
	LegalAddress       string `json:"legal_address"`
}

func (p *CreateCompanyRequest) CryptoFields() []services.Field {
	return []services.Field{
		{Name: "name", Value: &p.Name},
		{Name: "registration_number", Encrypted: true, Value: &p.RegistrationNumber},
		{Name: "legal_address", Value: &p.LegalAddress},
	}
}

type companyResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
	LegalAddress       string `json:"legal_address"`
	CreatedAt          string `json:"created_at"`
}

func toCompanyResponse(c *models.Company) companyResponse {
	return companyResponse{
		ID:                 c.ID,
		Name:               c.Name,
		RegistrationNumber: c.RegistrationNumber,
		LegalAddress:       c.LegalAddress,
		CreatedAt:          c.CreatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req CreateCompanyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.RegistrationNumber == "" {
		writeError(w, http.StatusBadRequest, "name and registration_number are required")
		return
	}

	kpID, ok := keyPairID(w, r)
	if !ok {
		return
	}

	decrypted, err := services.DecryptRequest(r.Context(), h.keyPairs, kpID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	ownerID := userIDFromContext(r.Context())

	company, err := h.companies.Register(r.Context(), ownerID,
		decrypted.Name, decrypted.RegistrationNumber, decrypted.LegalAddress)
	if err != nil {
		h.logger.Error(r.Context(), "company registration failed", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCompanyResponse(company))
}

func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.companies.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Profiles are visible to their owner only; leaking existence to
	// other accounts is avoided by answering 404.
	if company.OwnerID != userIDFromContext(r.Context()) {
		writeServiceError(w, common.ErrorNotFound)
		return
	}

	writeJSON(w, http.StatusOK, toCompanyResponse(company))
}

func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	list, err := h.companies.ListByOwner(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]companyResponse, len(list))
	for i, c := range list {
		out[i] = toCompanyResponse(c)
	}
	writeJSON(w, http.StatusOK, out)
}

// LookupCompany finds a company by its plaintext registration number.
func (h *Handler) LookupCompany(w http.ResponseWriter, r *http.Request) {
	number := r.URL.Query().Get("registration_number")
	if number == "" {
		writeError(w, http.StatusBadRequest, "registration_number query parameter is required")
		return
	}

	company, err := h.companies.FindByRegistrationNumber(r.Context(), number)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if company.OwnerID != userIDFromContext(r.Context()) {
		writeServiceError(w, common.ErrorNotFound)
		return
	}

	writeJSON(w, http.StatusOK, toCompanyResponse(company))
}
