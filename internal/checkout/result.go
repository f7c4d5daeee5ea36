// Package checkout orchestrates the conversion of a cart into
// committed bookings: validate, authorize payment, then re-check
// availability, allocate concrete rooms and persist bookings, payments
// and the cart clear in one database transaction.  Confirmation
// notifications fire only after the transaction commits.
package checkout

import "net/http"

// Request carries the caller's checkout intent.
type Request struct {
	UserID        uint64
	PaymentMethod string
}

// Error codes surfaced to API clients.  They are part of the public
// contract: handlers map them to HTTP statuses and clients branch on
// them, so the strings must stay stable.
const (
	CodeEmptyCart             = "EMPTY_CART"
	CodePaymentFailed         = "PAYMENT_FAILED"
	CodeInsufficientInventory = "INSUFFICIENT_INVENTORY"
	CodeValidation            = "VALIDATION_ERROR"
	CodeInternal              = "INTERNAL_ERROR"
)

// Result is the outcome of a checkout attempt.  Exactly one of the two
// shapes occurs: success with the created booking ids, or failure with
// a stable code and a human-readable message.
type Result struct {
	OK               bool     `json:"success"`
	Code             string   `json:"code,omitempty"`
	Message          string   `json:"message,omitempty"`
	BookingIDs       []uint64 `json:"booking_ids,omitempty"`
	TotalAmountCents uint32   `json:"total_amount_cents,omitempty"`
}

func success(bookingIDs []uint64, totalCents uint32) Result {
	return Result{OK: true, BookingIDs: bookingIDs, TotalAmountCents: totalCents}
}

func failure(code, message string) Result {
	return Result{OK: false, Code: code, Message: message}
}

// HTTPStatus maps a failed result to the response status the API
// returns for it.  Successful results map to 201 because checkout
// creates bookings.
func (r Result) HTTPStatus() int {
	if r.OK {
		return http.StatusCreated
	}
	switch r.Code {
	case CodeEmptyCart, CodePaymentFailed, CodeValidation:
		return http.StatusBadRequest
	case CodeInsufficientInventory:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
