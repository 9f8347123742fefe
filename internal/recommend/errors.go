// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package recommend

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Typed errors below match these with errors.Is.
var (
	// ErrSchema indicates the training input lacks required columns.
	ErrSchema = errors.New("schema error")

	// ErrNotTrained indicates a query was made before the first successful fit.
	ErrNotTrained = errors.New("model not trained")

	// ErrNotFound indicates an unknown reference item.
	ErrNotFound = errors.New("reference item not found")

	// ErrInvalidInput indicates an out-of-range argument such as topK < 1.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTrainingInProgress is returned when Fit is called while another fit runs.
	ErrTrainingInProgress = errors.New("training already in progress")
)

// SchemaError names the columns missing from a training frame.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Is reports whether target is ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// NotFoundError reports an unknown reference item id.
type NotFoundError struct {
	ItemID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("reference item %d not found", e.ItemID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Error codes reported to API clients.
const (
	CodeSchema             = "SCHEMA"
	CodeNotTrained         = "MODEL_NOT_TRAINED"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeTrainingInProgress = "TRAINING_IN_PROGRESS"
	CodeInternal           = "INTERNAL_ERROR"
)

// ErrorCode classifies err into one of the Code constants.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrSchema):
		return CodeSchema
	case errors.Is(err, ErrNotTrained):
		return CodeNotTrained
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrTrainingInProgress):
		return CodeTrainingInProgress
	default:
		return CodeInternal
	}
}
