// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Aube

// Package validators provides input validation for journal entries before
// they reach storage.
//
// Core concepts:
//   - Validator: generic interface to validate arbitrary values or structures.
//     Supports optional field-level scoping for targeted validation.
//
// This package decouples validation logic from the storage layer, enabling
// reusable and testable validation strategies.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
// Implementations may perform structural validation, semantic checks,
// cross-field rules.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
