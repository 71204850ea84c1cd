package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dpavlenko/regvault/internal/common"
	"github.com/dpavlenko/regvault/internal/server/services"
)

// RegisterRequest carries the password RSA-encrypted under a one-time
// key pair; the email travels in the clear.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p *RegisterRequest) CryptoFields() []services.Field {
	return []services.Field{
		{Name: "email", Value: &p.Email},
		{Name: "password", Encrypted: true, Value: &p.Password},
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p *LoginRequest) CryptoFields() []services.Field {
	return []services.Field{
		{Name: "email", Value: &p.Email},
		{Name: "password", Encrypted: true, Value: &p.Password},
	}
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type registerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// keyPairID extracts the one-time key pair reference from the request
// headers.
func keyPairID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(common.KeyPairIDHeaderName)
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing "+common.KeyPairIDHeaderName+" header")
		return "", false
	}
	return id, true
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
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

	user, err := h.users.Register(r.Context(), decrypted.Email, decrypted.Password)
	if err != nil {
		h.logger.Error(r.Context(), "registration failed", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{ID: user.ID, Email: user.Email})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
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

	pair, err := h.users.Login(r.Context(), decrypted.Email, decrypted.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	pair, err := h.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
