package handlers

import (
	"net/http"

	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/services"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/validation"
)

type FormHandler struct {
	service *services.SubmissionService
}

func NewFormHandler(service *services.SubmissionService) *FormHandler {
	return &FormHandler{service: service}
}

// CreateContact handles POST /api/contact
func (h *FormHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var form validation.ContactForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := form.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contact, err := h.service.CreateContact(r.Context(), &form)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      contact.ID.Hex(),
		"message": "Thank you for contacting us. We will get back to you soon.",
	})
}

// CreateVolunteer handles POST /api/volunteer
func (h *FormHandler) CreateVolunteer(w http.ResponseWriter, r *http.Request) {
	var form validation.VolunteerForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := form.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	volunteer, err := h.service.CreateVolunteer(r.Context(), &form)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      volunteer.ID.Hex(),
		"message": "Thank you for signing up to volunteer!",
	})
}

// Subscribe handles POST /api/subscribe
func (h *FormHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var form validation.SubscribeForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := form.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	subscriber, err := h.service.Subscribe(r.Context(), &form)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      subscriber.ID.Hex(),
		"message": "Subscribed successfully",
	})
}
