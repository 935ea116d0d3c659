// errors.go: structured error taxonomy for ripplecache
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error
// codes for all cache operations.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package ripplecache

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for ripplecache operations.
const (
	// Construction errors (1xxx)
	ErrCodeInvalidCapacity  errors.ErrorCode = "RIPPLECACHE_INVALID_CAPACITY"
	ErrCodeInvalidPolicy    errors.ErrorCode = "RIPPLECACHE_INVALID_POLICY"
	ErrCodeMissingHash      errors.ErrorCode = "RIPPLECACHE_MISSING_HASH"
	ErrCodeInvalidConcurLvl errors.ErrorCode = "RIPPLECACHE_INVALID_CONCURRENCY_LEVEL"

	// Operation errors (2xxx)
	ErrCodeKeyNotFound errors.ErrorCode = "RIPPLECACHE_KEY_NOT_FOUND"

	// Eviction callback errors (3xxx)
	ErrCodeEvictionCallbackFailed errors.ErrorCode = "RIPPLECACHE_EVICTION_CALLBACK_FAILED"

	// Internal errors (5xxx)
	ErrCodeInternalError  errors.ErrorCode = "RIPPLECACHE_INTERNAL_ERROR"
	ErrCodePanicRecovered errors.ErrorCode = "RIPPLECACHE_PANIC_RECOVERED"
)

// Common error messages.
const (
	msgInvalidCapacity        = "invalid capacity: must be greater than or equal to 1"
	msgInvalidPolicy          = "invalid policy: must be LRU or LFU"
	msgMissingHash            = "hash function is required"
	msgInvalidConcurLvl       = "invalid concurrency level: must be greater than or equal to 1"
	msgKeyNotFound            = "key not found in cache"
	msgEvictionCallbackFailed = "one or more eviction callbacks returned an error"
	msgInternalError          = "internal cache error"
	msgPanicRecovered         = "panic recovered in cache operation"
)

// =============================================================================
// CONSTRUCTION ERRORS
// =============================================================================

// NewErrInvalidCapacity creates an error for an invalid capacity.
func NewErrInvalidCapacity(capacity int) error {
	return errors.NewWithContext(ErrCodeInvalidCapacity, msgInvalidCapacity, map[string]interface{}{
		"provided_capacity": capacity,
		"minimum_required":  1,
	})
}

// NewErrInvalidPolicy creates an error for an unrecognized eviction
// policy value.
func NewErrInvalidPolicy(policy int) error {
	return errors.NewWithContext(ErrCodeInvalidPolicy, msgInvalidPolicy, map[string]interface{}{
		"provided_policy": policy,
		"valid_values":    "LRU, LFU",
	})
}

// NewErrMissingHash creates an error for a nil Config.Hash.
func NewErrMissingHash() error {
	return errors.NewWithField(ErrCodeMissingHash, msgMissingHash, "field", "Hash")
}

// NewErrInvalidConcurrencyLevel creates an error for an invalid
// concurrency level.
func NewErrInvalidConcurrencyLevel(level int) error {
	return errors.NewWithContext(ErrCodeInvalidConcurLvl, msgInvalidConcurLvl, map[string]interface{}{
		"provided_level":   level,
		"minimum_required": 1,
	})
}

// =============================================================================
// OPERATION ERRORS
// =============================================================================

// NewErrKeyNotFound creates an error for a missing-key indexed access.
func NewErrKeyNotFound(key interface{}) error {
	return errors.NewWithContext(ErrCodeKeyNotFound, msgKeyNotFound, map[string]interface{}{
		"key": fmt.Sprintf("%v", key),
	})
}

// =============================================================================
// EVICTION CALLBACK ERRORS
// =============================================================================

// NewErrEvictionCallbackFailed wraps the joined errors from a batch of
// eviction callbacks into a single structured error, raised once per
// drain after all locks are released and all evicted entries have been
// released.
func NewErrEvictionCallbackFailed(joined error, failed, total int) error {
	return errors.Wrap(joined, ErrCodeEvictionCallbackFailed, msgEvictionCallbackFailed).
		WithContext("failed_callbacks", failed).
		WithContext("total_callbacks", total)
}

// =============================================================================
// INTERNAL ERRORS
// =============================================================================

// NewErrInternal creates a generic internal error.
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternalError, msgInternalError).
			WithContext("operation", operation).
			WithSeverity("warning")
	}
	return errors.NewWithField(ErrCodeInternalError, msgInternalError, "operation", operation).
		WithSeverity("warning")
}

// NewErrPanicRecovered creates an error when a panic is recovered from
// a user-supplied eviction callback.
func NewErrPanicRecovered(operation string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"operation":   operation,
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsNotFound checks if err is a key-not-found error.
func IsNotFound(err error) bool {
	return errors.HasCode(err, ErrCodeKeyNotFound)
}

// IsConstructionError checks if err is a construction/argument error.
func IsConstructionError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidCapacity || code == ErrCodeInvalidPolicy ||
			code == ErrCodeMissingHash || code == ErrCodeInvalidConcurLvl
	}
	return false
}

// IsEvictionCallbackError checks if err is an aggregated eviction
// callback error.
func IsEvictionCallbackError(err error) bool {
	return errors.HasCode(err, ErrCodeEvictionCallbackFailed)
}

// IsRetryable checks if the error can be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error.
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var ripplecacheErr *errors.Error
	if goerrors.As(err, &ripplecacheErr) {
		return ripplecacheErr.Context
	}
	return nil
}
