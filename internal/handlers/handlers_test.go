package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/suite"

	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/config"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/db"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/models"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/services"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/testutil"
)

type fakeProvider struct {
	txRef       string
	approvalURL string
	initiateErr error
	status      models.DonationStatus
	confirmErr  error
	calls       int
}

func (p *fakeProvider) Initiate(ctx context.Context, d *models.Donation) (*services.Initiation, error) {
	p.calls++
	if p.initiateErr != nil {
		return nil, p.initiateErr
	}
	return &services.Initiation{TxRef: p.txRef, ApprovalURL: p.approvalURL, Payload: map[string]string{"status": "success"}}, nil
}

func (p *fakeProvider) Confirm(ctx context.Context, ref string) (models.DonationStatus, error) {
	p.calls++
	return p.status, p.confirmErr
}

type HandlersTestSuite struct {
	suite.Suite
	store    *testutil.MemoryStore
	notifier *testutil.RecordingNotifier
	gateway  *fakeProvider
	paypal   *fakeProvider
	handler  http.Handler
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (s *HandlersTestSuite) SetupTest() {
	s.store = testutil.NewMemoryStore()
	s.notifier = &testutil.RecordingNotifier{}
	s.gateway = &fakeProvider{txRef: "KG-1700000000000", status: models.DonationCompleted}
	s.paypal = &fakeProvider{txRef: "ORDER-1", approvalURL: "https://paypal.example/approve", status: models.DonationCompleted}

	donations := services.NewDonationService(s.store, s.notifier, map[models.PaymentMethod]services.PaymentProvider{
		models.MethodGateway: s.gateway,
		models.MethodPayPal:  s.paypal,
	}, config.BankDetails{Name: "Equity Bank", AccountNumber: "0123456789"})
	forms := services.NewSubmissionService(s.store, s.notifier)

	s.handler = Handler(NewRouter(NewFormHandler(forms), NewDonationHandler(donations)))
}

func (s *HandlersTestSuite) do(method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var out map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func (s *HandlersTestSuite) storedDonation() models.Donation {
	var d models.Donation
	s.Require().NoError(s.store.Decode(db.Donations, 0, &d))
	return d
}

func (s *HandlersTestSuite) TestHealth() {
	rec, _ := s.do(http.MethodGet, "/", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("OK", rec.Body.String())
	s.NotEmpty(rec.Header().Get("X-Request-ID"))
}

func (s *HandlersTestSuite) TestRequestIDHeader() {
	tests := []struct {
		name string
		in   string
		keep bool
	}{
		{"client id kept", "req-42.a_b", true},
		{"missing", "", false},
		{"control characters", "abc\x1b[31mred", false},
		{"spaces", "abc def", false},
		{"too long", strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", tt.in)
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)

			got := rec.Header().Get("X-Request-ID")
			if tt.keep {
				s.Equal(tt.in, got)
				return
			}
			s.NotEqual(tt.in, got)
			_, err := uuid.Parse(got)
			s.NoError(err)
		})
	}
}

func (s *HandlersTestSuite) TestCreateContact() {
	rec, body := s.do(http.MethodPost, "/api/contact",
		`{"firstName":"A","lastName":"B","email":"a@b.com","subject":"Hi","message":"Hello there"}`)
	s.Equal(http.StatusCreated, rec.Code)
	s.NotEmpty(body["id"])
	s.Len(s.store.All(db.Contacts), 1)
	s.Len(s.notifier.Sent(), 1)
}

func (s *HandlersTestSuite) TestCreateContactMissingFields() {
	rec, body := s.do(http.MethodPost, "/api/contact", `{"firstName":"A"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("lastName is required", body["error"])
	s.Empty(s.store.All(db.Contacts))
	s.Empty(s.notifier.Sent())
}

func (s *HandlersTestSuite) TestInvalidJSON() {
	rec, body := s.do(http.MethodPost, "/api/contact", `{"firstName":`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Invalid request body", body["error"])

	rec, body = s.do(http.MethodPost, "/api/donate", `{"fullName":"A B","email":"a@b.com","amount":"fifty","type":"one-time","method":"bank"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Invalid request body", body["error"])
}

func (s *HandlersTestSuite) TestCreateVolunteer() {
	rec, _ := s.do(http.MethodPost, "/api/volunteer",
		`{"fullName":"A B","email":"a@b.com","preferredArea":"education","availability":["weekends","evenings"]}`)
	s.Equal(http.StatusCreated, rec.Code)

	var v models.Volunteer
	s.Require().NoError(s.store.Decode(db.Volunteers, 0, &v))
	s.Equal([]string{"weekends", "evenings"}, v.Availability)
}

func (s *HandlersTestSuite) TestSubscribe() {
	rec, _ := s.do(http.MethodPost, "/api/subscribe", `{"email":"news@example.org"}`)
	s.Equal(http.StatusCreated, rec.Code)
	s.Len(s.store.All(db.Subscribers), 1)

	rec, body := s.do(http.MethodPost, "/api/subscribe", `{"email":"not-an-email"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("email must be a valid email", body["error"])
}

func (s *HandlersTestSuite) TestNotificationFailureIs500() {
	s.notifier.Err = errors.New("smtp down")

	rec, body := s.do(http.MethodPost, "/api/subscribe", `{"email":"news@example.org"}`)
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("Internal server error", body["error"])
	s.Len(s.store.All(db.Subscribers), 1)
}

func (s *HandlersTestSuite) TestDonateBank() {
	rec, body := s.do(http.MethodPost, "/api/donate",
		`{"amount":50,"type":"one-time","method":"bank","fullName":"A B","email":"a@b.com"}`)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("intent", body["status"])
	s.NotEmpty(body["message"])

	s.Equal(models.DonationIntent, s.storedDonation().Status)
	s.Zero(s.gateway.calls)
	s.Zero(s.paypal.calls)
}

func (s *HandlersTestSuite) TestDonateGateway() {
	rec, body := s.do(http.MethodPost, "/api/donate",
		`{"amount":"100.50","type":"monthly","method":"gateway","fullName":"A B","email":"a@b.com","phone":"+254700000001"}`)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("KG-1700000000000", body["txRef"])
	s.Equal(map[string]interface{}{"status": "success"}, body["data"])

	d := s.storedDonation()
	s.Equal(models.DonationInitiated, d.Status)
	s.Require().NotNil(d.TxRef)
	s.Equal("100.5", d.Amount.String())
}

func (s *HandlersTestSuite) TestDonateGatewayWithoutPhone() {
	rec, body := s.do(http.MethodPost, "/api/donate",
		`{"amount":10,"type":"one-time","method":"gateway","fullName":"A B","email":"a@b.com"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("phone is required for gateway donations", body["error"])
	s.Zero(s.gateway.calls)
}

func (s *HandlersTestSuite) TestDonatePayPal() {
	rec, body := s.do(http.MethodPost, "/api/donate",
		`{"amount":25,"type":"one-time","method":"paypal","fullName":"A B","email":"a@b.com"}`)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("ORDER-1", body["orderId"])
	s.Equal("https://paypal.example/approve", body["approvalUrl"])
	s.Equal(models.DonationCreated, s.storedDonation().Status)
}

func (s *HandlersTestSuite) TestDonateValidation() {
	tests := []struct {
		body string
		want string
	}{
		{`{"type":"one-time","method":"bank","fullName":"A B","email":"a@b.com"}`, "amount is required"},
		{`{"amount":0.5,"type":"one-time","method":"bank","fullName":"A B","email":"a@b.com"}`, "amount must be greater than or equal to 1"},
		{`{"amount":5,"type":"weekly","method":"bank","fullName":"A B","email":"a@b.com"}`, "type must be one of [one-time, monthly]"},
		{`{"amount":5,"type":"monthly","method":"crypto","fullName":"A B","email":"a@b.com"}`, "method must be one of [gateway, paypal, bank]"},
		{`{"amount":12345678901234567890123456789012345,"type":"one-time","method":"bank","fullName":"A B","email":"a@b.com"}`, "amount must have at most 34 significant digits"},
		{`{"amount":1e7000,"type":"one-time","method":"bank","fullName":"A B","email":"a@b.com"}`, "amount must be less than or equal to 1000000000"},
		{`{"amount":0.5,"type":"one-time","method":"gateway","fullName":"A B","email":"a@b.com"}`, "phone is required for gateway donations"},
	}
	for _, tt := range tests {
		rec, body := s.do(http.MethodPost, "/api/donate", tt.body)
		s.Equal(http.StatusBadRequest, rec.Code, tt.body)
		s.Equal(tt.want, body["error"])
	}
	s.Empty(s.store.All(db.Donations))
}

func (s *HandlersTestSuite) TestDonateProviderErrorIs500() {
	s.paypal.initiateErr = errors.New("paypal down")

	rec, body := s.do(http.MethodPost, "/api/donate",
		`{"amount":25,"type":"one-time","method":"paypal","fullName":"A B","email":"a@b.com"}`)
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("Internal server error", body["error"])
	s.NotContains(rec.Body.String(), "paypal down")
	s.Equal(models.DonationPending, s.storedDonation().Status)
}

func (s *HandlersTestSuite) TestCapturePayPal() {
	s.do(http.MethodPost, "/api/donate",
		`{"amount":25,"type":"one-time","method":"paypal","fullName":"A B","email":"a@b.com"}`)

	rec, body := s.do(http.MethodPost, "/api/donate/paypal/capture/ORDER-1", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("completed", body["status"])
	s.Equal(models.DonationCompleted, s.storedDonation().Status)

	rec, _ = s.do(http.MethodPost, "/api/donate/paypal/capture/ORDER-1", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(models.DonationCompleted, s.storedDonation().Status)
}

func (s *HandlersTestSuite) TestCaptureRejected() {
	s.do(http.MethodPost, "/api/donate",
		`{"amount":25,"type":"one-time","method":"paypal","fullName":"A B","email":"a@b.com"}`)
	s.paypal.status = models.DonationFailed

	rec, body := s.do(http.MethodPost, "/api/donate/paypal/capture/ORDER-1", "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Capture failed", body["error"])
	s.Equal(models.DonationCreated, s.storedDonation().Status)
}

func (s *HandlersTestSuite) TestVerifyUnknownReference() {
	rec, body := s.do(http.MethodGet, "/api/donate/gateway/verify/KG-12345", "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Verification failed", body["error"])
}

func (s *HandlersTestSuite) TestVerifyGateway() {
	s.do(http.MethodPost, "/api/donate",
		`{"amount":10,"type":"one-time","method":"gateway","fullName":"A B","email":"a@b.com","phone":"0700000001"}`)

	rec, body := s.do(http.MethodGet, "/api/donate/gateway/verify/KG-1700000000000", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Payment verified", body["message"])
	s.Equal(models.DonationCompleted, s.storedDonation().Status)
}

func (s *HandlersTestSuite) TestVerifyProviderErrorIs500() {
	s.gateway.confirmErr = errors.New("gateway timeout")

	rec, _ := s.do(http.MethodGet, "/api/donate/gateway/verify/KG-1", "")
	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *HandlersTestSuite) TestCORSPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/api/donate", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	s.Equal(http.StatusNoContent, rec.Code)
	s.Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
	s.Contains(rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	s.Empty(s.store.All(db.Donations))
}

func (s *HandlersTestSuite) TestCORSOnResponse() {
	rec, _ := s.do(http.MethodPost, "/api/subscribe", `{"email":"news@example.org"}`)
	s.Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func (s *HandlersTestSuite) TestRecovererReturnsGeneric500() {
	router := mux.NewRouter()
	router.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	Handler(router).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.JSONEq(`{"error":"Internal server error"}`, rec.Body.String())
}
