// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the authentication state machine.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kindlingapp/kindling-tui/internal/api"
	"github.com/kindlingapp/kindling-tui/internal/model"
)

// Profile field bounds.
const (
	MinAge         = 18
	MaxAge         = 100
	MinPasswordLen = 8
	MaxBioLen      = 500
)

// ValidationError is a locally detected input problem. It never reaches the
// network and is surfaced inline next to the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// =============================================================================
// LOGIN / REGISTER INPUT
// =============================================================================

// LoginInput is the local form state for login.
type LoginInput struct {
	Email    string
	Password string
}

// Validate checks required fields.
func (in LoginInput) Validate() error {
	if strings.TrimSpace(in.Email) == "" {
		return &ValidationError{Field: "email", Reason: "is required"}
	}
	if !strings.Contains(in.Email, "@") {
		return &ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	if in.Password == "" {
		return &ValidationError{Field: "password", Reason: "is required"}
	}
	return nil
}

// RegisterInput is the local form state for registration.
type RegisterInput struct {
	Email           string
	Name            string
	Password        string
	ConfirmPassword string
}

// Validate checks required fields and the password confirmation.
func (in RegisterInput) Validate() error {
	if strings.TrimSpace(in.Email) == "" {
		return &ValidationError{Field: "email", Reason: "is required"}
	}
	if !strings.Contains(in.Email, "@") {
		return &ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if len(in.Password) < MinPasswordLen {
		return &ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", MinPasswordLen)}
	}
	if in.Password != in.ConfirmPassword {
		return &ValidationError{Field: "confirm password", Reason: "does not match"}
	}
	return nil
}

// =============================================================================
// PROFILE INPUT
// =============================================================================

// SetupInput is the local form state for first-time profile setup. All
// fields are required.
type SetupInput struct {
	Age                int
	Gender             model.Gender
	Bio                string
	Interests          []string
	Latitude           float64
	Longitude          float64
	MinAge             int
	MaxAge             int
	InterestedInGender []model.Gender
	PhotoURL           string
}

// Validate applies the profile rules: age within bounds, non-empty bio, at
// least one interest, a coherent preference range.
func (in SetupInput) Validate() error {
	if in.Age < MinAge || in.Age > MaxAge {
		return &ValidationError{Field: "age", Reason: fmt.Sprintf("must be between %d and %d", MinAge, MaxAge)}
	}
	if !in.Gender.Valid() {
		return &ValidationError{Field: "gender", Reason: "must be male, female, or non-binary"}
	}
	if strings.TrimSpace(in.Bio) == "" {
		return &ValidationError{Field: "bio", Reason: "is required"}
	}
	if len(in.Bio) > MaxBioLen {
		return &ValidationError{Field: "bio", Reason: fmt.Sprintf("must be at most %d characters", MaxBioLen)}
	}
	if len(in.Interests) == 0 {
		return &ValidationError{Field: "interests", Reason: "add at least one"}
	}
	if in.MinAge < MinAge || in.MaxAge > MaxAge || in.MinAge > in.MaxAge {
		return &ValidationError{Field: "age range", Reason: fmt.Sprintf("must be within %d-%d with min at or below max", MinAge, MaxAge)}
	}
	if len(in.InterestedInGender) == 0 {
		return &ValidationError{Field: "interested in", Reason: "pick at least one"}
	}
	for _, g := range in.InterestedInGender {
		if !g.Valid() {
			return &ValidationError{Field: "interested in", Reason: fmt.Sprintf("unknown gender %q", g)}
		}
	}
	return nil
}

func (in SetupInput) toRequest() api.SetupProfileRequest {
	return api.SetupProfileRequest{
		Age:                in.Age,
		Gender:             in.Gender,
		Bio:                strings.TrimSpace(in.Bio),
		Interests:          in.Interests,
		Latitude:           in.Latitude,
		Longitude:          in.Longitude,
		MinAge:             in.MinAge,
		MaxAge:             in.MaxAge,
		InterestedInGender: in.InterestedInGender,
		PhotoURL:           in.PhotoURL,
	}
}

// UpdateInput is the local form state for profile edits. Nil fields are
// left unchanged.
type UpdateInput struct {
	Age                *int
	Gender             model.Gender
	Bio                *string
	Interests          []string
	Latitude           *float64
	Longitude          *float64
	MinAge             *int
	MaxAge             *int
	InterestedInGender []model.Gender
	PhotoURL           *string
}

// Validate applies the profile rules to whichever fields are present.
func (in UpdateInput) Validate() error {
	if in.Age != nil && (*in.Age < MinAge || *in.Age > MaxAge) {
		return &ValidationError{Field: "age", Reason: fmt.Sprintf("must be between %d and %d", MinAge, MaxAge)}
	}
	if in.Gender != "" && !in.Gender.Valid() {
		return &ValidationError{Field: "gender", Reason: "must be male, female, or non-binary"}
	}
	if in.Bio != nil {
		if strings.TrimSpace(*in.Bio) == "" {
			return &ValidationError{Field: "bio", Reason: "cannot be empty"}
		}
		if len(*in.Bio) > MaxBioLen {
			return &ValidationError{Field: "bio", Reason: fmt.Sprintf("must be at most %d characters", MaxBioLen)}
		}
	}
	if in.MinAge != nil && in.MaxAge != nil && *in.MinAge > *in.MaxAge {
		return &ValidationError{Field: "age range", Reason: "min must be at or below max"}
	}
	for _, g := range in.InterestedInGender {
		if !g.Valid() {
			return &ValidationError{Field: "interested in", Reason: fmt.Sprintf("unknown gender %q", g)}
		}
	}
	return nil
}

func (in UpdateInput) toRequest() api.UpdateProfileRequest {
	req := api.UpdateProfileRequest{
		Age:                in.Age,
		Bio:                in.Bio,
		Interests:          in.Interests,
		Latitude:           in.Latitude,
		Longitude:          in.Longitude,
		MinAge:             in.MinAge,
		MaxAge:             in.MaxAge,
		InterestedInGender: in.InterestedInGender,
		PhotoURL:           in.PhotoURL,
	}
	if in.Gender != "" {
		req.Gender = in.Gender
	}
	return req
}
