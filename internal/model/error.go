package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeInvalidRestaurantID = "INVALID_RESTAURANT_ID"
	ErrCodeInvalidOfferType    = "INVALID_OFFER_TYPE"
	ErrCodeInvalidOfferValue   = "INVALID_OFFER_VALUE"
	ErrCodeEmptySegments       = "EMPTY_SEGMENTS"
	ErrCodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Offer validation errors, one per creation rule.
var (
	ErrInvalidRestaurantID = NewDomainError(ErrCodeInvalidRestaurantID, "Restaurant ID must be a positive integer")
	ErrInvalidOfferType    = NewDomainError(ErrCodeInvalidOfferType, "Offer type must be FLATX or FLAT%")
	ErrInvalidOfferValue   = NewDomainError(ErrCodeInvalidOfferValue, "Offer value must be non-negative and at most 100 for FLAT% offers")
	ErrEmptySegments       = NewDomainError(ErrCodeEmptySegments, "Offer must target at least one non-blank segment")
)
