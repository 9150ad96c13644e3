// Package validation checks the four inbound forms. Each form is validated
// field by field in declaration order and the first failure is returned.
package validation

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/models"
)

// Error is a client-caused validation failure on a single field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func required(field string) *Error {
	return &Error{Field: field, Message: field + " is required"}
}

var (
	minDonation = decimal.NewFromInt(1)
	maxDonation = decimal.NewFromInt(1_000_000_000)
)

// Decimal128 holds at most 34 significant digits.
const maxAmountDigits = 34

var (
	errAmountTooSmall = &Error{Field: "amount", Message: "amount must be greater than or equal to 1"}
	errAmountTooLarge = &Error{Field: "amount", Message: "amount must be less than or equal to 1000000000"}
)

type ContactForm struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

func (f *ContactForm) Validate() error {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)

	if f.FirstName == "" {
		return required("firstName")
	}
	if f.LastName == "" {
		return required("lastName")
	}
	if err := checkEmail(&f.Email); err != nil {
		return err
	}
	if f.Subject == "" {
		return required("subject")
	}
	if f.Message == "" {
		return required("message")
	}
	return nil
}

type VolunteerForm struct {
	FullName      string   `json:"fullName"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	PreferredArea string   `json:"preferredArea"`
	Skills        string   `json:"skills"`
	Availability  []string `json:"availability"`
}

func (f *VolunteerForm) Validate() error {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Phone = strings.TrimSpace(f.Phone)
	f.PreferredArea = strings.TrimSpace(f.PreferredArea)
	f.Skills = strings.TrimSpace(f.Skills)

	if f.FullName == "" {
		return required("fullName")
	}
	if err := checkEmail(&f.Email); err != nil {
		return err
	}
	if f.PreferredArea == "" {
		return required("preferredArea")
	}
	for i, slot := range f.Availability {
		slot = strings.TrimSpace(slot)
		if slot == "" {
			return &Error{Field: "availability", Message: fmt.Sprintf("availability[%d] must not be empty", i)}
		}
		f.Availability[i] = slot
	}
	return nil
}

type SubscribeForm struct {
	Email string `json:"email"`
}

func (f *SubscribeForm) Validate() error {
	return checkEmail(&f.Email)
}

type DonationForm struct {
	FullName string               `json:"fullName"`
	Email    string               `json:"email"`
	Phone    string               `json:"phone"`
	Country  string               `json:"country"`
	Amount   *decimal.Decimal     `json:"amount"`
	Type     models.DonationType  `json:"type"`
	Method   models.PaymentMethod `json:"method"`
}

func (f *DonationForm) Validate() error {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Country = strings.TrimSpace(f.Country)

	if f.FullName == "" {
		return required("fullName")
	}
	if err := checkEmail(&f.Email); err != nil {
		return err
	}
	if f.Method == models.MethodGateway && f.Phone == "" {
		return &Error{Field: "phone", Message: "phone is required for gateway donations"}
	}
	if err := checkAmount(f.Amount); err != nil {
		return err
	}
	if f.Type == "" {
		return required("type")
	}
	if !f.Type.Valid() {
		return &Error{Field: "type", Message: "type must be one of [one-time, monthly]"}
	}
	if f.Method == "" {
		return required("method")
	}
	if !f.Method.Valid() {
		return &Error{Field: "method", Message: "method must be one of [gateway, paypal, bank]"}
	}
	return nil
}

// checkAmount bounds the exponent and digit count before comparing or
// rounding, since both rescale the coefficient.
func checkAmount(amount *decimal.Decimal) error {
	if amount == nil {
		return required("amount")
	}
	if amount.Sign() <= 0 {
		return errAmountTooSmall
	}
	if amount.Exponent() > maxAmountDigits {
		return errAmountTooLarge
	}
	if amount.NumDigits() > maxAmountDigits {
		return &Error{Field: "amount", Message: fmt.Sprintf("amount must have at most %d significant digits", maxAmountDigits)}
	}
	if amount.Exponent() < -maxAmountDigits {
		return &Error{Field: "amount", Message: "amount must have at most 2 decimal places"}
	}
	if amount.LessThan(minDonation) {
		return errAmountTooSmall
	}
	if amount.GreaterThan(maxDonation) {
		return errAmountTooLarge
	}
	if !amount.Equal(amount.Round(2)) {
		return &Error{Field: "amount", Message: "amount must have at most 2 decimal places"}
	}
	return nil
}

func checkEmail(email *string) error {
	v := strings.ToLower(strings.TrimSpace(*email))
	if v == "" {
		return required("email")
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v || !strings.Contains(v[strings.LastIndex(v, "@"):], ".") {
		return &Error{Field: "email", Message: "email must be a valid email"}
	}
	*email = v
	return nil
}
