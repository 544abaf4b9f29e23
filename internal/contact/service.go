// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package contact

import (
	"context"

	"github.com/mgirard/praxia/internal/auth"
	"github.com/mgirard/praxia/internal/platform/apperr"
	"github.com/mgirard/praxia/internal/platform/validate"
	"github.com/mgirard/praxia/pkg/uuidv7"
)

// Field names used in validation details, matching the form's JSON keys.
const (
	FieldFirstName               = "firstName"
	FieldLastName                = "lastName"
	FieldEmail                   = "email"
	FieldConsultationType        = "consultationType"
	FieldConfidentialityAccepted = "confidentialityAccepted"
)

const (
	maxNameLength  = 100
	maxEmailLength = 180
	maxPhoneLength = 20
)

// UserFinder resolves accounts by email so a fresh contact request can be
// linked to its owner at creation time.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*auth.User, error)
}

// Service carries the contact-request business logic.
type Service struct {
	store Store
	users UserFinder
}

// NewService constructs a new contact [Service].
func NewService(store Store, users UserFinder) *Service {
	return &Service{store: store, users: users}
}

// CreateInput is the payload of the public contact form.
type CreateInput struct {
	FirstName               string  `json:"firstName"`
	LastName                string  `json:"lastName"`
	Email                   string  `json:"email"`
	Phone                   *string `json:"phone"`
	ConsultationType        string  `json:"consultationType"`
	Message                 *string `json:"message"`
	ConfidentialityAccepted bool    `json:"confidentialityAccepted"`
}

// Create validates and persists a contact request submitted from the public
// form. If an account already exists with the submitter's email, the request
// is linked to it immediately; otherwise it stays unlinked until a matching
// account is created and the registration backfill picks it up.
func (service *Service) Create(ctx context.Context, input CreateInput) (*Request, error) {
	validator := &validate.Validator{}
	validator.Required(FieldFirstName, input.FirstName).
		MaxLen(FieldFirstName, input.FirstName, maxNameLength).
		Required(FieldLastName, input.LastName).
		MaxLen(FieldLastName, input.LastName, maxNameLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, maxEmailLength).
		Required(FieldConsultationType, input.ConsultationType).
		OneOf(FieldConsultationType, input.ConsultationType, ConsultationTypes...).
		Custom(FieldConfidentialityAccepted, !input.ConfidentialityAccepted,
			"You must accept the confidentiality policy")

	if input.Phone != nil {
		validator.MaxLen("phone", *input.Phone, maxPhoneLength)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	request := &Request{
		ID:                      uuidv7.New(),
		FirstName:               input.FirstName,
		LastName:                input.LastName,
		Email:                   input.Email,
		Phone:                   input.Phone,
		ConsultationType:        input.ConsultationType,
		Message:                 input.Message,
		ConfidentialityAccepted: input.ConfidentialityAccepted,
	}

	// Link-on-create: an unknown email is the normal case, not an error.
	owner, err := service.users.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		request.UserID = &owner.ID
	case !apperr.IsNotFound(err):
		return nil, err
	}

	if err := service.store.Create(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

// ListMine returns the caller's contact history, newest first. Requests count
// as the caller's when linked to their account or carrying their email.
func (service *Service) ListMine(ctx context.Context, userID, email string) ([]*View, error) {
	requests, err := service.store.ListForUser(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	views := make([]*View, 0, len(requests))
	for _, request := range requests {
		views = append(views, request.PublicView())
	}

	return views, nil
}

// ListAll returns every contact request, newest first. Admin only; enforced
// at the routing layer.
func (service *Service) ListAll(ctx context.Context) ([]*Request, error) {
	return service.store.ListAll(ctx)
}

// Get returns a single contact request by ID. Admin only.
func (service *Service) Get(ctx context.Context, id string) (*Request, error) {
	validator := &validate.Validator{}
	validator.UUID("id", id)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.store.FindByID(ctx, id)
}

// LinkUnowned satisfies the registration backfill hook by delegating to the
// store's idempotent linking update.
func (service *Service) LinkUnowned(ctx context.Context, userID, email string) error {
	return service.store.LinkUnowned(ctx, userID, email)
}
