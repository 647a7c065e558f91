package service

import "errors"

var (
	// ErrInvalidTransition is returned when an order cannot move to the requested status.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrInvalidQuantity is returned for non-positive stock movements.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrNotSupplier is returned when an order targets an account that is not a supplier.
	ErrNotSupplier = errors.New("account is not a supplier")
	// ErrNoSupplierPhone is returned when a product has no supplier phone to contact.
	ErrNoSupplierPhone = errors.New("no phone number linked for this supplier")
	// ErrEmptyBill is returned for a checkout without items.
	ErrEmptyBill = errors.New("bill has no items")
)
