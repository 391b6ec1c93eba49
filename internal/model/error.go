package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	DishID        *int64 `json:"dishId,omitempty"`
	Available     *int   `json:"available,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeDishNotFound      = "DISH_NOT_FOUND"
	ErrCodeOfferNotFound     = "OFFER_NOT_FOUND"
	ErrCodeCartLineNotFound  = "CART_LINE_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeDishClaimed       = "DISH_CLAIMED"
	ErrCodeDishInUse         = "DISH_IN_USE"
	ErrCodeNotAvailable      = "NOT_AVAILABLE"
	ErrCodeExceedsAvailable  = "EXCEEDS_AVAILABLE"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business rule rejection. DishID and Available are set
// when the rejection concerns a specific dish and its remaining quantity.
type DomainError struct {
	Code      string
	Message   string
	DishID    *int64
	Available *int
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that the
// sentinels below can be matched with errors.Is regardless of details.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrValidation        = NewDomainError(ErrCodeValidation, "Invalid input")
	ErrDishNotFound      = NewDomainError(ErrCodeDishNotFound, "Dish not found")
	ErrOfferNotFound     = NewDomainError(ErrCodeOfferNotFound, "Offer not found")
	ErrCartLineNotFound  = NewDomainError(ErrCodeCartLineNotFound, "Cart line not found")
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrDishClaimed       = NewDomainError(ErrCodeDishClaimed, "Dish is already offered by another cook for this date")
	ErrDishInUse         = NewDomainError(ErrCodeDishInUse, "Dish is referenced by offers or orders")
	ErrNotAvailable      = NewDomainError(ErrCodeNotAvailable, "Dish is not available today")
	ErrExceedsAvailable  = NewDomainError(ErrCodeExceedsAvailable, "Requested quantity exceeds the available quantity")
	ErrInsufficientStock = NewDomainError(ErrCodeInsufficientStock, "Insufficient stock")
	ErrEmptyCart         = NewDomainError(ErrCodeEmptyCart, "Shopping cart is empty")
	ErrForbidden         = NewDomainError(ErrCodeForbidden, "Cart line belongs to another customer")
	ErrInvalidQuantity   = NewDomainError(ErrCodeValidation, "Quantity must be greater than zero")
)

// ValidationError builds a VALIDATION_ERROR with a specific message.
func ValidationError(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeValidation, fmt.Sprintf(format, args...))
}

// DishNotFoundError names the unknown dish.
func DishNotFoundError(dishID int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeDishNotFound,
		Message: fmt.Sprintf("Dish %d not found", dishID),
		DishID:  &dishID,
	}
}

// ConflictError names the dish that another cook already offers for the date.
func ConflictError(dishID int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeDishClaimed,
		Message: fmt.Sprintf("Dish %d is already offered by another cook for this date", dishID),
		DishID:  &dishID,
	}
}

// DishInUseError rejects deletion of a dish that offers or orders still reference.
func DishInUseError(dishID int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeDishInUse,
		Message: fmt.Sprintf("Dish %d is referenced by offers or orders and cannot be deleted", dishID),
		DishID:  &dishID,
	}
}

// NotAvailableError reports that no offer exists for the dish today.
func NotAvailableError(dishID int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotAvailable,
		Message: fmt.Sprintf("Dish %d is not available today", dishID),
		DishID:  &dishID,
	}
}

// ExceedsAvailableError reports a cart request above what is left for the customer.
// available is the quantity the customer may still add.
func ExceedsAvailableError(dishID int64, available int) *DomainError {
	if available < 0 {
		available = 0
	}
	return &DomainError{
		Code:      ErrCodeExceedsAvailable,
		Message:   fmt.Sprintf("The number of selections exceeds the number available for dish %d, remaining: %d", dishID, available),
		DishID:    &dishID,
		Available: &available,
	}
}

// InsufficientStockError reports the dish that could not be satisfied at commit.
func InsufficientStockError(dishID int64, available int) *DomainError {
	if available < 0 {
		available = 0
	}
	return &DomainError{
		Code:      ErrCodeInsufficientStock,
		Message:   fmt.Sprintf("Insufficient stock for dish %d, available: %d", dishID, available),
		DishID:    &dishID,
		Available: &available,
	}
}
