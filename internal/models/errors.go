package models

import "errors"

var (
	ErrOrderNotFound   = errors.New("models: order not found")
	ErrProductNotFound = errors.New("models: product not found")
	ErrReviewNotFound  = errors.New("models: review not found")
	ErrUserNotFound    = errors.New("models: user not found")

	// ErrDuplicateReview is returned when a user already has a review on
	// the product; callers should direct the client to update instead.
	ErrDuplicateReview = errors.New("models: duplicate review for user and product")

	ErrTerminalState      = errors.New("models: order is in a terminal state")
	ErrInvalidTransition  = errors.New("models: invalid order status transition")
	ErrNotEligible        = errors.New("models: no delivered order containing this product")
	ErrPriceMismatch      = errors.New("models: totalPrice does not equal itemsPrice + taxPrice + shippingPrice")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
)
