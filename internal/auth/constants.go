// Copyright (c) 2026 Praxia. All rights reserved.
// Author: m.girard.dev@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a bearer token remains valid.
	//
	// Tokens are stateless, so role changes are invisible until reissue;
	// one hour bounds that staleness window while keeping the SPA from
	// re-authenticating mid-visit.
	AccessTokenTTL = 1 * time.Hour

	// MinPasswordLength is the minimum accepted password length on registration.
	MinPasswordLength = 8
)

// # Field Identifiers (JSON payload keys)

const (
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

// # Client Messages

const (
	// MessageInvalidCredentials is the uniform login failure message.
	//
	// It is deliberately identical for "no such email" and "wrong password"
	// so the endpoint cannot be used to enumerate registered addresses.
	MessageInvalidCredentials = "Invalid email or password"

	// MessageEmailTaken is returned when registration hits the email
	// uniqueness constraint.
	MessageEmailTaken = "An account with this email already exists"

	// MessageAccountCreated accompanies a successful registration response.
	MessageAccountCreated = "Account created successfully"
)
