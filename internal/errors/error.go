package errors

import (
	"errors"
)

var (
	ErrEmptyAuth            = errors.New("missing authorization")
	ErrEmptySubject         = errors.New("missing subject")
	ErrTokenInvalid         = errors.New("invalid token")
	ErrConflict             = errors.New("state was modified concurrently")
	ErrCartEmpty            = errors.New("cart is empty")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrCheckoutRejected     = errors.New("order service rejected checkout")
	ErrCheckoutInProgress   = errors.New("checkout already in progress")
	ErrCityNotFound         = errors.New("city not found")
	ErrLocationUnavailable  = errors.New("current location is unavailable")
	ErrNotificationNotFound = errors.New("notification not found")
)
