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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportError_Format(t *testing.T) {
	t.Parallel()

	err := NewBusReadError("ReadPage", "/dev/i2c-1", 42, nil)
	assert.Equal(t, "ReadPage /dev/i2c-1 page 42: bus read failed", err.Error())

	bare := NewBusWriteError("WritePage", "", 7, nil)
	assert.Equal(t, "WritePage page 7: bus write failed", bare.Error())
}

func TestTransportError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("timeout waiting for SCL")
	err := NewBusWriteError("WritePage", "/dev/i2c-0", 3, cause)

	require.ErrorIs(t, err, ErrBusWrite)
	require.ErrorIs(t, err, cause)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, uint8(3), te.Page)
	assert.True(t, te.Retryable)
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want bool
	}{
		{nil, "nil", false},
		{ErrBusRead, "bus read sentinel", true},
		{ErrBusWrite, "bus write sentinel", true},
		{fmt.Errorf("wrapped: %w", ErrBusRead), "wrapped bus read", true},
		{ErrOutOfRange, "out of range", false},
		{ErrNDEFNotFound, "ndef not found", false},
		{ErrInvalidParameter, "invalid parameter", false},
		{NewBusReadError("ReadPage", "", 0, nil), "transient transport error", true},
		{
			NewTransportError("WritePage", "", 0, ErrDataTooLarge, ErrorTypePermanent),
			"permanent transport error", false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestIsFatal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want bool
	}{
		{nil, "nil", false},
		{ErrTransportClosed, "transport closed", true},
		{ErrDeviceNotFound, "device not found", true},
		{io.EOF, "eof", true},
		{fmt.Errorf("read: %w", syscall.ENODEV), "device gone errno", true},
		{ErrBusRead, "plain bus error", false},
		{NewBusReadError("ReadPage", "", 0, nil), "transient transport error", false},
		{
			NewTransportError("ReadPage", "", 0, ErrBusRead, ErrorTypePermanent),
			"permanent transport error", true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}
