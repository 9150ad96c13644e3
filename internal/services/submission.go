package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/db"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/models"
	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/validation"
)

// SubmissionService stores contact, volunteer and subscriber records and
// sends the matching notification.
type SubmissionService struct {
	store    RecordStore
	notifier Notifier
	now      func() time.Time
}

func NewSubmissionService(store RecordStore, notifier Notifier) *SubmissionService {
	return &SubmissionService{store: store, notifier: notifier, now: time.Now}
}

func (s *SubmissionService) CreateContact(ctx context.Context, form *validation.ContactForm) (*models.Contact, error) {
	contact := &models.Contact{
		ID:        primitive.NewObjectID(),
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Phone:     form.Phone,
		Subject:   form.Subject,
		Message:   form.Message,
		CreatedAt: s.now(),
	}
	if _, err := s.store.Insert(ctx, db.Contacts, contact); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}

	subject, body := contactNoticeMessage(contact)
	if err := s.notifier.NotifyAdmin(ctx, subject, body); err != nil {
		log.Printf("Contact %s saved but notification failed: %v", contact.ID.Hex(), err)
		return nil, fmt.Errorf("failed to notify about contact: %w", err)
	}
	return contact, nil
}

func (s *SubmissionService) CreateVolunteer(ctx context.Context, form *validation.VolunteerForm) (*models.Volunteer, error) {
	volunteer := &models.Volunteer{
		ID:            primitive.NewObjectID(),
		FullName:      form.FullName,
		Email:         form.Email,
		Phone:         form.Phone,
		PreferredArea: form.PreferredArea,
		Skills:        form.Skills,
		Availability:  form.Availability,
		CreatedAt:     s.now(),
	}
	if _, err := s.store.Insert(ctx, db.Volunteers, volunteer); err != nil {
		return nil, fmt.Errorf("failed to save volunteer: %w", err)
	}

	subject, body := volunteerNoticeMessage(volunteer)
	if err := s.notifier.NotifyAdmin(ctx, subject, body); err != nil {
		log.Printf("Volunteer %s saved but notification failed: %v", volunteer.ID.Hex(), err)
		return nil, fmt.Errorf("failed to notify about volunteer: %w", err)
	}
	return volunteer, nil
}

func (s *SubmissionService) Subscribe(ctx context.Context, form *validation.SubscribeForm) (*models.Subscriber, error) {
	subscriber := &models.Subscriber{
		ID:        primitive.NewObjectID(),
		Email:     form.Email,
		CreatedAt: s.now(),
	}
	if _, err := s.store.Insert(ctx, db.Subscribers, subscriber); err != nil {
		return nil, fmt.Errorf("failed to save subscriber: %w", err)
	}

	subject, body := welcomeMessage()
	if err := s.notifier.Send(ctx, subscriber.Email, subject, body); err != nil {
		log.Printf("Subscriber %s saved but welcome email failed: %v", subscriber.ID.Hex(), err)
		return nil, fmt.Errorf("failed to send welcome email: %w", err)
	}
	return subscriber, nil
}
