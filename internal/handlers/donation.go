package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/models"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/services"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/validation"
)

type DonationHandler struct {
	service *services.DonationService
}

func NewDonationHandler(service *services.DonationService) *DonationHandler {
	return &DonationHandler{service: service}
}

// Donate handles POST /api/donate
func (h *DonationHandler) Donate(w http.ResponseWriter, r *http.Request) {
	var form validation.DonationForm
	if err := decodeJSON(w, r, &form); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := form.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Donate(r.Context(), &form)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CapturePayPal handles POST /api/donate/paypal/capture/{orderId}
func (h *DonationHandler) CapturePayPal(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]
	h.confirm(w, r, models.MethodPayPal, orderID, "Payment captured", "Capture failed")
}

// VerifyGateway handles GET /api/donate/gateway/verify/{txRef}
func (h *DonationHandler) VerifyGateway(w http.ResponseWriter, r *http.Request) {
	txRef := mux.Vars(r)["txRef"]
	h.confirm(w, r, models.MethodGateway, txRef, "Payment verified", "Verification failed")
}

// confirm answers 400 both when the provider rejects the payment and when
// no donation carries the reference.
func (h *DonationHandler) confirm(w http.ResponseWriter, r *http.Request, method models.PaymentMethod, ref, okMessage, failMessage string) {
	err := h.service.Confirm(r.Context(), method, ref)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{
			"message": okMessage,
			"status":  string(models.DonationCompleted),
		})
	case errors.Is(err, services.ErrConfirmationFailed), errors.Is(err, services.ErrDonationNotFound):
		writeError(w, http.StatusBadRequest, failMessage)
	default:
		internalError(w, r, err)
	}
}
