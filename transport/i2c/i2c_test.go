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

package i2c

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"

	ntagi2c "github.com/ZaparooProject/go-ntagi2c"
)

func TestReadPage_WireFormat(t *testing.T) {
	t.Parallel()

	page := make([]byte, ntagi2c.PageSize)
	for i := range page {
		page[i] = byte(i + 1)
	}

	// A page read writes the MEMA byte, then reads 16 bytes.
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultAddress, W: []byte{0x07}, R: page},
		},
		DontPanic: true,
	}

	transport := NewWithBus(bus, DefaultAddress, "playback")
	got, err := transport.ReadPage(7)
	require.NoError(t, err)
	assert.Equal(t, page, got)
}

func TestWritePage_WireFormat(t *testing.T) {
	t.Parallel()

	data := make([]byte, ntagi2c.PageSize)
	for i := range data {
		data[i] = byte(0xF0 - i)
	}

	// A page write is the MEMA byte followed by the 16 data bytes in
	// one transaction.
	frame := append([]byte{0x20}, data...)
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultAddress, W: frame, R: nil},
		},
		DontPanic: true,
	}

	transport := NewWithBus(bus, DefaultAddress, "playback")
	require.NoError(t, transport.WritePage(0x20, data))
}

func TestWritePage_RejectsPartialPages(t *testing.T) {
	t.Parallel()

	bus := &i2ctest.Playback{DontPanic: true}
	transport := NewWithBus(bus, DefaultAddress, "playback")

	err := transport.WritePage(0, []byte{1, 2, 3})
	require.ErrorIs(t, err, ntagi2c.ErrInvalidParameter)
}

func TestReadPage_BusFailure(t *testing.T) {
	t.Parallel()

	// No recorded ops: any transaction fails in DontPanic mode.
	bus := &i2ctest.Playback{DontPanic: true}
	transport := NewWithBus(bus, DefaultAddress, "playback")

	_, err := transport.ReadPage(3)
	require.ErrorIs(t, err, ntagi2c.ErrBusRead)

	var te *ntagi2c.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, uint8(3), te.Page)
	assert.Equal(t, "playback", te.Port)
}

func TestTransportType(t *testing.T) {
	t.Parallel()

	transport := NewWithBus(&i2ctest.Playback{DontPanic: true}, DefaultAddress, "playback")
	assert.Equal(t, ntagi2c.TransportI2C, transport.Type())
	assert.True(t, transport.IsConnected())
	require.NoError(t, transport.Close(), "close without owned bus is a no-op")
}
