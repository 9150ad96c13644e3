package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationIntent    DonationStatus = "intent"    // bank transfer promised
	DonationInitiated DonationStatus = "initiated" // gateway charge sent
	DonationCreated   DonationStatus = "created"   // PayPal order created
	DonationCompleted DonationStatus = "completed"
	DonationFailed    DonationStatus = "failed" // only ever reported by a provider, never stored
)

type PaymentMethod string

const (
	MethodGateway PaymentMethod = "gateway"
	MethodPayPal  PaymentMethod = "paypal"
	MethodBank    PaymentMethod = "bank"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodGateway, MethodPayPal, MethodBank:
		return true
	}
	return false
}

// InitiatedStatus is the status a donation moves to once its payment path has started.
func (m PaymentMethod) InitiatedStatus() DonationStatus {
	switch m {
	case MethodBank:
		return DonationIntent
	case MethodGateway:
		return DonationInitiated
	case MethodPayPal:
		return DonationCreated
	}
	return DonationPending
}

type DonationType string

const (
	DonationOneTime DonationType = "one-time"
	DonationMonthly DonationType = "monthly"
)

func (t DonationType) Valid() bool {
	return t == DonationOneTime || t == DonationMonthly
}

// Donation represents a donation document in the donations collection
type Donation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName  string             `bson:"full_name" json:"fullName"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Country   string             `bson:"country,omitempty" json:"country,omitempty"`
	Amount    Amount             `bson:"amount" json:"amount"`
	Type      DonationType       `bson:"type" json:"type"`
	Method    PaymentMethod      `bson:"method" json:"method"`
	Status    DonationStatus     `bson:"status" json:"status"`
	TxRef     *string            `bson:"tx_ref" json:"txRef"` // nil until a provider assigns one
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Amount is a decimal money value stored as BSON Decimal128.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func (a Amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d128, err := primitive.ParseDecimal128(a.Decimal.String())
	if err != nil {
		return 0, nil, fmt.Errorf("amount %s: %w", a.Decimal, err)
	}
	return bson.MarshalValue(d128)
}

func (a *Amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Decimal128:
		d, err := decimal.NewFromString(raw.Decimal128().String())
		if err != nil {
			return err
		}
		a.Decimal = d
	case bsontype.Double:
		a.Decimal = decimal.NewFromFloat(raw.Double())
	case bsontype.String:
		d, err := decimal.NewFromString(raw.StringValue())
		if err != nil {
			return err
		}
		a.Decimal = d
	default:
		return fmt.Errorf("cannot decode %s into amount", t)
	}
	return nil
}
