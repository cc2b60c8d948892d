package store

import (
	"errors"
	"fmt"
)

// CodeStoreError is the envelope code for store failures.
const CodeStoreError = "STORE_ERROR"

// ErrInvalidCiphertext is returned when a sealed value cannot be opened.
var ErrInvalidCiphertext = errors.New("invalid ciphertext")

// StorageError wraps a failed store operation.
type StorageError struct {
	Operation string
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("store error [operation=%s]: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// Code returns CodeStoreError.
func (e *StorageError) Code() string {
	return CodeStoreError
}

func newStorageError(op string, cause error) *StorageError {
	return &StorageError{Operation: op, Cause: cause}
}
