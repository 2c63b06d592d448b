// Package adapter provides transport-layer access to the MedEscala REST API.
//
// The primary abstraction is [ServerAdapter], which decouples the sync layer
// from the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrUnauthorized] for 401, [ErrNotFound] for 404).
package adapter

import (
	"context"

	"github.com/medescala/shiftsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the MedEscala
// backend. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel
// values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to all subsequent requests.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if none has been set.
	Token() string

	// UserID returns the subject extracted from the stored bearer token, or
	// an empty string when no token is set.
	UserID() string

	// ListShifts fetches the shifts matching the given filter state. All
	// filter dimensions are optional; empty values are omitted from the
	// query string.
	ListShifts(ctx context.Context, f models.ShiftFilters) ([]models.Shift, error)

	// ListPayments fetches the payments for the same filter window as the
	// shift list, so the two collections can be merged client-side.
	ListPayments(ctx context.Context, f models.ShiftFilters) ([]models.Payment, error)

	// CreatePayment registers a payment for a shift and returns the
	// server-side record, including the authoritative payment id.
	CreatePayment(ctx context.Context, p models.Payment) (models.Payment, error)

	// DeletePayment removes a payment by id. Returns [ErrNotFound] (wrapped)
	// when the payment no longer exists on the server.
	DeletePayment(ctx context.Context, paymentID string) error

	// ListLocations fetches the registered workplaces used to populate the
	// location filter.
	ListLocations(ctx context.Context) ([]models.Location, error)
}
