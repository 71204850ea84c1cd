package httpapi

import (
	"encoding/base64"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dpavlenko/regvault/internal/common"
)

type createDocumentRequest struct {
	CompanyID string `json:"company_id"`
	Title     string `json:"title"`
	// Content is the raw document, base64-encoded. The server seals it
	// and hands back the ciphertext the client uploads.
	Content string `json:"content"`
}

type createDocumentResponse struct {
	ID            string `json:"id"`
	UploadURL     string `json:"upload_url"`
	SealedContent string `json:"sealed_content"`
}

type documentURLResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	DownloadURL string `json:"download_url"`
}

// ownsCompany checks that the authenticated user owns the company a
// document belongs to.
func (h *Handler) ownsCompany(r *http.Request, companyID string) error {
	company, err := h.companies.Get(r.Context(), companyID)
	if err != nil {
		return err
	}
	if company.OwnerID != userIDFromContext(r.Context()) {
		return common.ErrorNotFound
	}
	return nil
}

func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CompanyID == "" || req.Title == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "company_id, title and content are required")
		return
	}

	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		writeError(w, http.StatusBadRequest, "content must be base64")
		return
	}

	if err := h.ownsCompany(r, req.CompanyID); err != nil {
		writeServiceError(w, err)
		return
	}

	doc, task, sealed, err := h.documents.Create(r.Context(), req.CompanyID, req.Title, content)
	if err != nil {
		h.logger.Error(r.Context(), "document creation failed", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createDocumentResponse{
		ID:            doc.ID,
		UploadURL:     task.URL,
		SealedContent: base64.StdEncoding.EncodeToString(sealed),
	})
}

func (h *Handler) ConfirmDocumentUpload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := h.documents.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.ownsCompany(r, doc.CompanyID); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.documents.MarkUploaded(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetDocumentURL(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, url, err := h.documents.GetDownloadURL(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.ownsCompany(r, doc.CompanyID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentURLResponse{
		ID:          doc.ID,
		Title:       doc.Title,
		DownloadURL: url,
	})
}
