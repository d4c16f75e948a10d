package oddsfeed

import (
	"fmt"
	"log"
)

// OddsFeedAPIError represents an error from the lines API
type OddsFeedAPIError struct {
	Message   string
	ErrorCode string
	Data      string
	Cause     error
}

func (e *OddsFeedAPIError) Error() string {
	return fmt.Sprintf("lines API error: %s (code: %s)", e.Message, e.ErrorCode)
}

// AuthenticationError represents an authentication failure
type AuthenticationError struct {
	Message string
	Cause   error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication error: %s", e.Message)
}

// UnsupportedMarketError represents a market the feed does not post lines for
type UnsupportedMarketError struct {
	Market  string
	Message string
	Cause   error
}

func (e *UnsupportedMarketError) Error() string {
	return fmt.Sprintf("unsupported market [%s]: %s", e.Market, e.Message)
}

// LineSuspendedError represents a line the book has pulled
type LineSuspendedError struct {
	MarketID string
	Message  string
	Cause    error
}

func (e *LineSuspendedError) Error() string {
	return fmt.Sprintf("line suspended [%s]: %s", e.MarketID, e.Message)
}

// RateLimitExceededError represents a feed rate limit rejection
type RateLimitExceededError struct {
	Message string
	Cause   error
}

func (e *RateLimitExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded: %s", e.Message)
}

// NewOddsFeedAPIError creates a new lines API error
func NewOddsFeedAPIError(message, code string, cause error) *OddsFeedAPIError {
	return &OddsFeedAPIError{
		Message:   message,
		ErrorCode: code,
		Cause:     cause,
	}
}

// NewAuthenticationError creates a new authentication error
func NewAuthenticationError(message string, cause error) *AuthenticationError {
	return &AuthenticationError{
		Message: message,
		Cause:   cause,
	}
}

// NewUnsupportedMarketError creates a new unsupported market error
func NewUnsupportedMarketError(market, message string, cause error) *UnsupportedMarketError {
	return &UnsupportedMarketError{
		Market:  market,
		Message: message,
		Cause:   cause,
	}
}

// NewLineSuspendedError creates a new line suspended error
func NewLineSuspendedError(marketID, message string, cause error) *LineSuspendedError {
	return &LineSuspendedError{
		MarketID: marketID,
		Message:  message,
		Cause:    cause,
	}
}

// NewRateLimitExceededError creates a new rate limit error
func NewRateLimitExceededError(message string, cause error) *RateLimitExceededError {
	return &RateLimitExceededError{
		Message: message,
		Cause:   cause,
	}
}

// MapOddsFeedError maps lines API error codes to specific error types
func MapOddsFeedError(errorCode string, message string, logger *log.Logger) error {
	if logger != nil {
		logger.Printf("Lines API error code: %s, message: %s", errorCode, message)
	}

	switch errorCode {
	case ErrorInvalidSession:
		return NewAuthenticationError("invalid session", nil)
	case ErrorUnsupportedMarket:
		return NewUnsupportedMarketError("", message, nil)
	case ErrorLineSuspended:
		return NewLineSuspendedError("", message, nil)
	case ErrorRateLimitExceeded:
		return NewRateLimitExceededError(message, nil)
	case ErrorUnknownAthlete:
		return fmt.Errorf("unknown athlete: %s", message)
	case ErrorSubscriptionExceeded:
		return fmt.Errorf("subscription limit exceeded: %s", message)
	case ErrorSlateNotAvailable:
		return fmt.Errorf("slate not available: %s", message)
	default:
		return NewOddsFeedAPIError(message, errorCode, nil)
	}
}
