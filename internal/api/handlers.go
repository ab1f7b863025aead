// Package api exposes the CRM over HTTP. Handlers are thin translations
// between JSON and the service layer; service sentinels map to status codes
// and everything else is a 500.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/maisondor/whatsapp-crm/internal/domain"
	"github.com/maisondor/whatsapp-crm/internal/pkg/logger"
	"github.com/maisondor/whatsapp-crm/internal/sending"
	"github.com/maisondor/whatsapp-crm/internal/service/audience"
	"github.com/maisondor/whatsapp-crm/internal/service/campaign"
	"github.com/maisondor/whatsapp-crm/internal/service/contact"
)

// Handlers bundles the HTTP handlers and their service dependencies.
type Handlers struct {
	Contacts  *contact.Service
	Rescore   RescoreService
	Audience  *audience.Service
	Campaigns *campaign.Service
}

// RescoreService is the batch scoring surface the API needs.
type RescoreService interface {
	RescoreContact(ctx context.Context, id string) (*domain.Score, error)
	RescoreAll(ctx context.Context) (int, int, error)
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListContacts returns every contact.
func (h *Handlers) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.Contacts.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	respondJSON(w, http.StatusOK, contacts)
}

// GetContact returns one contact by id.
func (h *Handlers) GetContact(w http.ResponseWriter, r *http.Request) {
	c, err := h.Contacts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// CreateContact normalizes and stores a contact.
func (h *Handlers) CreateContact(w http.ResponseWriter, r *http.Request) {
	var input contact.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	c, err := h.Contacts.Create(r.Context(), input)
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// RescoreContact recomputes one contact's score.
func (h *Handlers) RescoreContact(w http.ResponseWriter, r *http.Request) {
	score, err := h.Rescore.RescoreContact(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, score)
}

// RescoreAll recomputes every contact's score synchronously. Batches are
// small enough that the request just waits.
func (h *Handlers) RescoreAll(w http.ResponseWriter, r *http.Request) {
	scored, failed, err := h.Rescore.RescoreAll(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"scored": scored, "failed": failed})
}

// audienceRequest is the preview payload: a segment plus the filter spec.
type audienceRequest struct {
	Segment domain.Segment            `json:"segment"`
	Filter  domain.CampaignFilterSpec `json:"filter"`
}

// AudienceCounts runs the filter pipeline and returns the three preview
// numbers without creating anything.
func (h *Handlers) AudienceCounts(w http.ResponseWriter, r *http.Request) {
	var req audienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	counts, err := h.Audience.Counts(r.Context(), req.Segment, req.Filter)
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, counts)
}

// ListCampaigns returns all campaigns.
func (h *Handlers) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.Campaigns.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	if campaigns == nil {
		campaigns = []domain.Campaign{}
	}
	respondJSON(w, http.StatusOK, campaigns)
}

// GetCampaign returns one campaign by id.
func (h *Handlers) GetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := h.Campaigns.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// CreateCampaign stores a draft campaign.
func (h *Handlers) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var input campaign.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	c, err := h.Campaigns.Create(r.Context(), input)
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// PreviewCampaign returns the audience counts for a draft.
func (h *Handlers) PreviewCampaign(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Campaigns.Preview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, counts)
}

// SendCampaign triggers the send and reports delivery counts.
func (h *Handlers) SendCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sent, failed, err := h.Campaigns.Send(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"sent": sent, "failed": failed})
}

// fail translates service sentinels into status codes.
func (h *Handlers) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contact.ErrNotFound), errors.Is(err, campaign.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, audience.ErrInvalidSegment), errors.Is(err, contact.ErrInvalidPhone):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, campaign.ErrAlreadySending):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, campaign.ErrEmptyAudience):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, sending.ErrQuotaExceeded):
		respondError(w, http.StatusTooManyRequests, err.Error())
	default:
		logger.Error("request failed", "error", err.Error())
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
