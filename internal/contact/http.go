// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package contact

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mgirard/praxia/internal/platform/middleware"
	requestutil "github.com/mgirard/praxia/internal/platform/request"
	"github.com/mgirard/praxia/internal/platform/respond"
	"github.com/mgirard/praxia/internal/platform/sec"
	"github.com/mgirard/praxia/internal/platform/validate"
)

// Handler implements the contact-request HTTP endpoints.
type Handler struct {
	contactService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{contactService: service}
}

// Routes returns a [chi.Router] with the contact routes, mounted under
// /api/contacts by the server. The caller-facing history endpoint lives at
// /api/me/contacts instead and is wired through [Handler.MyContacts].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public form submission
	router.Post("/", handler.create)

	// Admin endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/", handler.listAll)
		r.Get("/{contactID}", handler.get)
	})

	return router
}

// create handles the public contact form.
//
// POST /api/contacts
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	created, err := handler.contactService.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

// MyContacts returns the authenticated caller's contact history, newest
// first. Exported so the server can mount it at /api/me/contacts alongside
// the auth routes.
//
// GET /api/me/contacts (Authorization: Bearer <token>)
func (handler *Handler) MyContacts(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	views, err := handler.contactService.ListMine(request.Context(), claims.UserID, claims.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, views)
}

// listAll returns every contact request for the admin dashboard.
//
// GET /api/contacts
func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	requests, err := handler.contactService.ListAll(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, requests)
}

// get returns a single contact request for the admin dashboard.
//
// GET /api/contacts/{contactID}
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	found, err := handler.contactService.Get(request.Context(), requestutil.Param(request, "contactID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}
