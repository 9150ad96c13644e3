package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/db"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/models"
)

var (
	ErrDonationNotFound   = errors.New("donation not found")
	ErrConfirmationFailed = errors.New("payment not confirmed by provider")
	ErrUnsupportedMethod  = errors.New("payment method not configured")
	ErrPhoneRequired      = errors.New("phone number required for gateway charge")
)

// RecordStore is the subset of db.Store the services write through.
type RecordStore interface {
	Insert(ctx context.Context, kind db.Kind, doc interface{}) (string, error)
	UpdateWhere(ctx context.Context, kind db.Kind, filter, patch bson.M) (int64, error)
}

// Notifier delivers a message and reports whether it was accepted.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
	NotifyAdmin(ctx context.Context, subject, body string) error
}

// Initiation is what a provider hands back when a payment is started.
type Initiation struct {
	TxRef       string
	ApprovalURL string
	Payload     interface{}
}

// PaymentProvider starts a payment for a donation and later confirms it by
// its external reference.
type PaymentProvider interface {
	Initiate(ctx context.Context, d *models.Donation) (*Initiation, error)
	Confirm(ctx context.Context, ref string) (models.DonationStatus, error)
}

func maskEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 || len(parts[0]) <= 3 {
		return email
	}
	return parts[0][:3] + "****@" + parts[1]
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return "****" + phone[len(phone)-4:]
}
