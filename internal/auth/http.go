// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mgirard/praxia/internal/platform/middleware"
	requestutil "github.com/mgirard/praxia/internal/platform/request"
	"github.com/mgirard/praxia/internal/platform/respond"
	"github.com/mgirard/praxia/internal/platform/validate"
)

// Handler implements the authentication HTTP endpoints.
//
// # Contract
//
// The response shapes are consumed by the existing SPA frontend and must be
// preserved exactly:
//
//	POST /api/register → 201 {message, token, user} | 400 | 409
//	POST /api/login    → 200 {token, user} | 400 | 401
//	GET  /api/me       → 200 public user view | 401
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] with the authentication routes, mounted
// under /api by the server.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
register handles the creation of a new user account.

POST /api/register

Response:
  - 201: {message, token, user}
  - 400: Validation failure
  - 409: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           input.Email,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{
		"message": MessageAccountCreated,
		"token":   session.Token,
		"user":    session.User.PublicView(),
	})
}

/*
login authenticates a user with email and password.

POST /api/login

Response:
  - 200: {token, user}
  - 400: Missing email or password
  - 401: Uniform invalid-credentials message
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	session, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"token": session.Token,
		"user":  session.User.PublicView(),
	})
}

/*
me returns the fresh public view of the authenticated user.

GET /api/me (Authorization: Bearer <token>)

The view is re-read from storage rather than echoed from the token, so the
session-restoration path always sees current names/roles.

Response:
  - 200: Public user view
  - 401: Missing, invalid, or orphaned token
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.authService.CurrentUser(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}
