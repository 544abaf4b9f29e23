// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package oauth

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/mgirard/praxia/internal/platform/constants"
	"github.com/mgirard/praxia/internal/platform/ctxutil"
	"github.com/mgirard/praxia/internal/platform/respond"
)

// Handler implements the browser-facing OAuth endpoints.
//
// # Contract
//
// The callback always answers with an HTTP redirect, never a JSON error:
// the browser is mid-navigation, so failures land on the neutral route with
// a flash parameter and successes on the SPA route with the credentials.
type Handler struct {
	oauthService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{oauthService: service}
}

// Routes returns a [chi.Router] with the OAuth routes, mounted under
// /connect by the server.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/google", handler.start)
	router.Get("/google/check", handler.callback)

	return router
}

// start begins the authorization-code flow.
//
// GET /connect/google
func (handler *Handler) start(writer http.ResponseWriter, request *http.Request) {
	consentURL, err := handler.oauthService.Begin(request.Context())
	if err != nil {
		// The flow has not left the site yet, so a JSON error is still fine.
		respond.Error(writer, request, err)
		return
	}

	http.Redirect(writer, request, consentURL, http.StatusFound)
}

// callback completes the flow after the provider redirects back.
//
// GET /connect/google/check?state=...&code=...
func (handler *Handler) callback(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	code := query.Get("code")
	if code == "" {
		// Provider-side denial or error; surface its description when given.
		message := query.Get("error_description")
		if message == "" {
			message = query.Get("error")
		}
		if message == "" {
			message = "No authorization code received"
		}
		handler.redirectFailure(writer, request, message, nil)
		return
	}

	session, err := handler.oauthService.Complete(request.Context(), query.Get("state"), code)
	if err != nil {
		handler.redirectFailure(writer, request, "Google sign-in failed", err)
		return
	}

	userJSON, err := json.Marshal(session.User.PublicView())
	if err != nil {
		handler.redirectFailure(writer, request, "Google sign-in failed", err)
		return
	}

	params := url.Values{}
	params.Set(constants.ParamAuthSuccess, "1")
	params.Set(constants.ParamToken, session.Token)
	params.Set(constants.ParamUser, base64.StdEncoding.EncodeToString(userJSON))

	http.Redirect(writer, request, constants.ClientAppRoute+"?"+params.Encode(), http.StatusFound)
}

// redirectFailure sends the browser to the neutral route with a flash
// parameter, logging the underlying cause server-side only.
func (handler *Handler) redirectFailure(writer http.ResponseWriter, request *http.Request, message string, cause error) {
	ctx := request.Context()
	ctxutil.GetLogger(ctx).WarnContext(ctx, "oauth_callback_failed",
		slog.String("reason", message),
		slog.Any("error", cause),
	)

	params := url.Values{}
	params.Set(constants.ParamAuthError, message)

	http.Redirect(writer, request, constants.LandingRoute+"?"+params.Encode(), http.StatusFound)
}
