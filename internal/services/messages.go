package services

import (
	"fmt"
	"strings"

	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/config"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/models"
)

func bankInstructionsMessage(d *models.Donation, bank config.BankDetails) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", d.FullName)
	fmt.Fprintf(&b, "Thank you for pledging a %s donation of %s.\n", d.Type, d.Amount.StringFixed(2))
	b.WriteString("Please complete it by bank transfer to:\n\n")
	fmt.Fprintf(&b, "Bank: %s\n", bank.Name)
	fmt.Fprintf(&b, "Account name: %s\n", bank.AccountName)
	fmt.Fprintf(&b, "Account number: %s\n", bank.AccountNumber)
	if bank.Swift != "" {
		fmt.Fprintf(&b, "SWIFT: %s\n", bank.Swift)
	}
	fmt.Fprintf(&b, "Reference: %s\n\n", d.ID.Hex())
	b.WriteString("Please quote the reference so we can match your transfer.\n")
	return "Bank transfer instructions for your donation", b.String()
}

func donationNoticeMessage(d *models.Donation) (string, string) {
	ref := ""
	if d.TxRef != nil {
		ref = *d.TxRef
	}
	body := fmt.Sprintf("A new %s donation was started.\n\nName: %s\nEmail: %s\nPhone: %s\nCountry: %s\nAmount: %s\nMethod: %s\nReference: %s\nStatus: %s\n",
		d.Type, d.FullName, d.Email, d.Phone, d.Country, d.Amount.StringFixed(2), d.Method, ref, d.Status)
	return fmt.Sprintf("New %s donation from %s", d.Method, d.FullName), body
}

func contactNoticeMessage(c *models.Contact) (string, string) {
	body := fmt.Sprintf("Name: %s %s\nEmail: %s\nPhone: %s\n\n%s\n", c.FirstName, c.LastName, c.Email, c.Phone, c.Message)
	return "Contact form: " + c.Subject, body
}

func volunteerNoticeMessage(v *models.Volunteer) (string, string) {
	body := fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\nPreferred area: %s\nSkills: %s\nAvailability: %s\n",
		v.FullName, v.Email, v.Phone, v.PreferredArea, v.Skills, strings.Join(v.Availability, ", "))
	return "New volunteer: " + v.FullName, body
}

func welcomeMessage() (string, string) {
	return "Welcome to our newsletter",
		"Thank you for subscribing. You will hear from us about our work, events and ways to help.\n"
}
