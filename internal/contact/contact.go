// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

// Package contact manages contact requests submitted from the public
// website form. Requests are created anonymously; when the submitter's
// email matches an existing account the request is linked to that account
// at creation time, and newly registered accounts pick up their earlier
// unlinked requests through the backfill hook.
package contact

import "time"

// ConsultationTypes is the closed set of values accepted for the
// consultation-type field of the public form.
var ConsultationTypes = []string{
	"Individual therapy",
	"Couples therapy",
	"Child psychology",
	"Professional coaching",
	"Psychological assessment",
	"Other",
}

// Request is a contact request as stored.
type Request struct {
	ID                      string    `json:"id"`
	FirstName               string    `json:"firstName"`
	LastName                string    `json:"lastName"`
	Email                   string    `json:"email"`
	Phone                   *string   `json:"phone"`
	ConsultationType        string    `json:"consultationType"`
	Message                 *string   `json:"message"`
	ConfidentialityAccepted bool      `json:"confidentialityAccepted"`
	CreatedAt               time.Time `json:"createdAt"`
	Processed               bool      `json:"processed"`
	UserID                  *string   `json:"userId,omitempty"`
}

// View is the shape returned from the caller-facing history endpoint. It
// omits the linkage and consent columns, which are internal bookkeeping.
type View struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	Phone            *string   `json:"phone"`
	ConsultationType string    `json:"consultationType"`
	Message          *string   `json:"message"`
	CreatedAt        time.Time `json:"createdAt"`
	Processed        bool      `json:"processed"`
}

// PublicView returns the caller-facing projection of the request.
func (r *Request) PublicView() *View {
	return &View{
		ID:               r.ID,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		Phone:            r.Phone,
		ConsultationType: r.ConsultationType,
		Message:          r.Message,
		CreatedAt:        r.CreatedAt,
		Processed:        r.Processed,
	}
}
