// Copyright 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ntagi2c

import (
	"errors"
	"fmt"
	"io"
	"syscall"
)

// Error categories for error handling and retry logic
var (
	// Bus errors - potentially retryable
	ErrBusRead         = errors.New("bus read failed")
	ErrBusWrite        = errors.New("bus write failed")
	ErrTransportClosed = errors.New("transport is closed")

	// Caller errors - not retryable
	ErrOutOfRange       = errors.New("offset and length exceed region bounds")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrDataTooLarge     = errors.New("data too large")

	// NDEF errors - not retryable
	ErrNDEFNotFound  = errors.New("NDEF message TLV not found")
	ErrInvalidFormat = errors.New("invalid data format")

	// Detection errors
	ErrDeviceNotFound = errors.New("device not found")
)

// ErrorType represents the category of error for retry logic
type ErrorType int

const (
	// ErrorTypeTransient indicates a potentially retryable error
	ErrorTypeTransient ErrorType = iota
	// ErrorTypePermanent indicates a non-retryable error
	ErrorTypePermanent
	// ErrorTypeTimeout indicates a timeout error (special handling)
	ErrorTypeTimeout
)

// TransportError wraps bus-level errors with additional context
type TransportError struct {
	Err       error     // Underlying error
	Op        string    // Operation that failed
	Port      string    // Bus or device identifier
	Page      uint8     // Page index involved in the transaction
	Type      ErrorType // Error category
	Retryable bool      // Whether the error is retryable
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s %s page %d: %v", e.Op, e.Port, e.Page, e.Err)
	}
	return fmt.Sprintf("%s page %d: %v", e.Op, e.Page, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport error with consistent formatting
func NewTransportError(op, port string, page uint8, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Page:      page,
		Err:       err,
		Type:      errType,
		Retryable: errType == ErrorTypeTransient || errType == ErrorTypeTimeout,
	}
}

// NewBusReadError creates a page read error (transient)
func NewBusReadError(op, port string, page uint8, cause error) *TransportError {
	err := ErrBusRead
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrBusRead, cause)
	}
	return NewTransportError(op, port, page, err, ErrorTypeTransient)
}

// NewBusWriteError creates a page write error (transient)
func NewBusWriteError(op, port string, page uint8, cause error) *TransportError {
	err := ErrBusWrite
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrBusWrite, cause)
	}
	return NewTransportError(op, port, page, err, ErrorTypeTransient)
}

// IsRetryable returns true if the error is potentially retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	switch {
	case errors.Is(err, ErrBusRead),
		errors.Is(err, ErrBusWrite):
		return true
	default:
		return false
	}
}

// IsFatal returns true if the error indicates the device/connection is gone
// and the caller should stop entirely. This is distinct from IsRetryable
// which indicates whether a single page transaction can be retried.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Type == ErrorTypePermanent
	}

	if isDeviceGoneError(err) {
		return true
	}

	switch {
	case errors.Is(err, ErrTransportClosed),
		errors.Is(err, ErrDeviceNotFound),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrClosedPipe):
		return true
	default:
		return false
	}
}

// isDeviceGoneError checks for OS-level errors indicating the bus adapter
// disappeared, e.g. an unplugged USB-to-I2C bridge during a transaction.
func isDeviceGoneError(err error) bool {
	if err == nil {
		return false
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		//nolint:exhaustive // Only checking specific device-gone errors, not all errno values
		switch errno {
		case syscall.EIO, syscall.ENXIO, syscall.ENODEV:
			return true
		}
	}

	return false
}
