package models

import "time"

// Shift represents a single logged work shift.
// It is the primary record fetched from the remote API; payment status is
// not stored on the shift itself but derived by merging the payments
// collection (see MergeShiftPayments).
type Shift struct {
	// ID is the server-assigned unique identifier of the shift.
	ID string `json:"id"`

	// LocationID references the workplace where the shift was performed.
	// Empty when the shift is not bound to a registered workplace.
	LocationID string `json:"location_id"`

	// ContractorID references the staffing contractor, if any.
	ContractorID string `json:"contractor_id"`

	// Date is the calendar day of the shift.
	Date time.Time `json:"date"`

	// StartTime and EndTime are wall-clock bounds in "HH:MM" form.
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	// Value is the agreed pay for the shift, in the account currency.
	Value float64 `json:"value"`

	// Location is the resolved workplace record when the API expands it,
	// nil otherwise. Callers must check for nil instead of relying on
	// partially populated fields.
	Location *Location `json:"location,omitempty"`

	// Notes contains optional free-form user notes.
	Notes string `json:"notes,omitempty"`
}

// Location is a registered workplace.
type Location struct {
	// ID is the server-assigned unique identifier of the workplace.
	ID string `json:"id"`

	// Name is the human-readable workplace name.
	Name string `json:"name"`

	// Address is an optional street address.
	Address string `json:"address,omitempty"`
}

// Payment records a received payment for a shift.
type Payment struct {
	// ID is the unique identifier of the payment. Optimistically created
	// payments carry a client-generated id until the server confirms.
	ID string `json:"id"`

	// ShiftID references the shift this payment settles.
	ShiftID string `json:"shift_id"`

	// Amount is the paid amount, in the account currency.
	Amount float64 `json:"amount"`

	// PaidAt is the moment the payment was registered.
	PaidAt time.Time `json:"paid_at"`

	// Method is an optional payment method label (e.g. "pix", "transfer").
	Method string `json:"method,omitempty"`
}

// ShiftView is the merged row published to the UI: a shift together with its
// derived payment status. It is the entity type the sync coordinator and the
// optimistic mutator operate on.
type ShiftView struct {
	Shift

	// IsPaid reports whether a payment exists for this shift.
	IsPaid bool `json:"is_paid"`

	// PaymentID is the id of the settling payment, empty when unpaid.
	PaymentID string `json:"payment_id,omitempty"`
}

// EntityID returns the stable identity used by selection and optimistic
// mutation. Identity is the shift id, never object equality.
func (v ShiftView) EntityID() string {
	return v.ID
}

// DisplayName renders the label shown to the user in batch failure reports:
// workplace name (or a placeholder) plus the shift date.
func (v ShiftView) DisplayName() string {
	name := "shift"
	if v.Location != nil && v.Location.Name != "" {
		name = v.Location.Name
	}
	return name + " " + v.Date.Format("02/01/2006")
}
