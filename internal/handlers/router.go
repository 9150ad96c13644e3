package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires every public route.
func NewRouter(forms *FormHandler, donations *DonationHandler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet, http.MethodHead)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/contact", forms.CreateContact).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/volunteer", forms.CreateVolunteer).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/subscribe", forms.Subscribe).Methods(http.MethodPost, http.MethodOptions)

	api.HandleFunc("/donate", donations.Donate).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/donate/paypal/capture/{orderId}", donations.CapturePayPal).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/donate/gateway/verify/{txRef}", donations.VerifyGateway).Methods(http.MethodGet, http.MethodOptions)

	api.Use(mux.CORSMethodMiddleware(api))
	api.Use(allowAnyOrigin)

	return router
}

// Handler is the full server handler: logging and panic recovery around the router.
func Handler(router *mux.Router) http.Handler {
	return RequestLogger(Recoverer(router))
}
