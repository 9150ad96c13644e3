package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/config"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/db"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/models"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/validation"
)

// DonationService drives a donation from submission to completion.
//
// Every submission is written as pending before anything else happens. Bank
// transfers then move to intent and the donor is emailed instructions.
// Gateway and PayPal donations call their provider, store the provider
// reference as tx_ref with the method's initiated status, and notify the
// office. Confirm later flips a matching tx_ref to completed.
//
// Nothing is rolled back: a provider error leaves the record pending, and
// a failed notification fails the call even though the update is stored.
type DonationService struct {
	store     RecordStore
	notifier  Notifier
	providers map[models.PaymentMethod]PaymentProvider
	bank      config.BankDetails
	now       func() time.Time
}

func NewDonationService(store RecordStore, notifier Notifier, providers map[models.PaymentMethod]PaymentProvider, bank config.BankDetails) *DonationService {
	return &DonationService{
		store:     store,
		notifier:  notifier,
		providers: providers,
		bank:      bank,
		now:       time.Now,
	}
}

// DonationResult is the method-specific answer to a donation submission.
type DonationResult struct {
	DonationID  string                `json:"donationId"`
	Status      models.DonationStatus `json:"status"`
	Message     string                `json:"message,omitempty"`
	TxRef       string                `json:"txRef,omitempty"`
	OrderID     string                `json:"orderId,omitempty"`
	ApprovalURL string                `json:"approvalUrl,omitempty"`
	Data        interface{}           `json:"data,omitempty"`
}

// Donate records a validated donation and starts its payment path.
func (s *DonationService) Donate(ctx context.Context, form *validation.DonationForm) (*DonationResult, error) {
	var provider PaymentProvider
	if form.Method != models.MethodBank {
		var ok bool
		if provider, ok = s.providers[form.Method]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, form.Method)
		}
	}

	donation := &models.Donation{
		ID:        primitive.NewObjectID(),
		FullName:  form.FullName,
		Email:     form.Email,
		Phone:     form.Phone,
		Country:   form.Country,
		Amount:    models.NewAmount(*form.Amount),
		Type:      form.Type,
		Method:    form.Method,
		Status:    models.DonationPending,
		CreatedAt: s.now(),
	}
	if _, err := s.store.Insert(ctx, db.Donations, donation); err != nil {
		return nil, fmt.Errorf("failed to save donation: %w", err)
	}
	log.Printf("Donation created: ID=%s, Method=%s, Amount=%s, Type=%s, Email=%s",
		donation.ID.Hex(), donation.Method, donation.Amount.StringFixed(2), donation.Type, maskEmail(donation.Email))

	if donation.Method == models.MethodBank {
		return s.startBankTransfer(ctx, donation)
	}
	return s.startProviderPayment(ctx, donation, provider)
}

func (s *DonationService) startBankTransfer(ctx context.Context, d *models.Donation) (*DonationResult, error) {
	if err := s.transition(ctx, d, models.DonationIntent, nil); err != nil {
		return nil, err
	}

	subject, body := bankInstructionsMessage(d, s.bank)
	if err := s.notifier.Send(ctx, d.Email, subject, body); err != nil {
		log.Printf("Donation %s stored as %s but instructions email failed: %v", d.ID.Hex(), d.Status, err)
		return nil, fmt.Errorf("failed to send bank instructions: %w", err)
	}

	return &DonationResult{
		DonationID: d.ID.Hex(),
		Status:     d.Status,
		Message:    "Thank you! Bank transfer instructions have been sent to your email.",
	}, nil
}

func (s *DonationService) startProviderPayment(ctx context.Context, d *models.Donation, provider PaymentProvider) (*DonationResult, error) {
	started, err := provider.Initiate(ctx, d)
	if err != nil {
		log.Printf("Failed to initiate %s payment for donation %s: %v", d.Method, d.ID.Hex(), err)
		return nil, fmt.Errorf("failed to initiate %s payment: %w", d.Method, err)
	}

	if err := s.transition(ctx, d, d.Method.InitiatedStatus(), &started.TxRef); err != nil {
		return nil, err
	}

	subject, body := donationNoticeMessage(d)
	if err := s.notifier.NotifyAdmin(ctx, subject, body); err != nil {
		log.Printf("Donation %s stored as %s (tx_ref=%s) but notification failed: %v", d.ID.Hex(), d.Status, started.TxRef, err)
		return nil, fmt.Errorf("failed to notify about donation: %w", err)
	}

	result := &DonationResult{
		DonationID: d.ID.Hex(),
		Status:     d.Status,
	}
	if d.Method == models.MethodPayPal {
		result.OrderID = started.TxRef
		result.ApprovalURL = started.ApprovalURL
	} else {
		result.TxRef = started.TxRef
		result.Data = started.Payload
	}
	return result, nil
}

// transition persists a status change (and tx_ref, if given) for d.
func (s *DonationService) transition(ctx context.Context, d *models.Donation, status models.DonationStatus, txRef *string) error {
	patch := bson.M{"status": status}
	if txRef != nil {
		patch["tx_ref"] = *txRef
	}

	n, err := s.store.UpdateWhere(ctx, db.Donations, bson.M{"_id": d.ID}, patch)
	if err != nil {
		return fmt.Errorf("failed to update donation %s: %w", d.ID.Hex(), err)
	}
	if n == 0 {
		return fmt.Errorf("failed to update donation %s: %w", d.ID.Hex(), ErrDonationNotFound)
	}

	log.Printf("Donation %s: %s -> %s", d.ID.Hex(), d.Status, status)
	d.Status = status
	if txRef != nil {
		d.TxRef = txRef
	}
	return nil
}

// Confirm asks the method's provider to finalize ref and, on success, marks
// the donation carrying that tx_ref completed. Repeating a successful
// confirm is a no-op.
func (s *DonationService) Confirm(ctx context.Context, method models.PaymentMethod, ref string) error {
	provider, ok := s.providers[method]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	status, err := provider.Confirm(ctx, ref)
	if err != nil {
		log.Printf("Failed to confirm %s payment %s: %v", method, ref, err)
		return fmt.Errorf("failed to confirm %s payment: %w", method, err)
	}
	if status != models.DonationCompleted {
		log.Printf("Provider did not confirm %s payment %s: status=%s", method, ref, status)
		return ErrConfirmationFailed
	}

	n, err := s.store.UpdateWhere(ctx, db.Donations,
		bson.M{"tx_ref": ref, "method": method},
		bson.M{"status": models.DonationCompleted})
	if err != nil {
		return fmt.Errorf("failed to complete donation %s: %w", ref, err)
	}
	if n == 0 {
		log.Printf("No donation found for %s tx_ref %s", method, ref)
		return ErrDonationNotFound
	}

	log.Printf("Donation completed: method=%s, tx_ref=%s", method, ref)
	return nil
}
