package moderation

import (
	"encoding/json"
	"net/http"
)

// ReviewRequest is the JSON body accepted by the review handler.
type ReviewRequest struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// Handler serves moderation reviews over HTTP. It accepts POST requests
// with a ReviewRequest body and responds with the Decision as JSON.
type Handler struct {
	moderator *Moderator
}

// NewHandler wraps a moderator in an http.Handler.
func NewHandler(moderator *Moderator) *Handler {
	return &Handler{moderator: moderator}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "request body does not decode", http.StatusBadRequest)
		return
	}

	snapshot := map[string]any{
		"id":        request.ID,
		"text":      request.Text,
		"createdAt": request.CreatedAt,
	}
	decision, err := h.moderator.Review(request.ID, snapshot)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(decision); err != nil {
		http.Error(w, "response does not encode", http.StatusInternalServerError)
	}
}
