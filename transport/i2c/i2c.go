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

// Package i2c provides the I2C page transport for NTAG I2C chips
package i2c

import (
	"fmt"

	ntagi2c "github.com/ZaparooProject/go-ntagi2c"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

const (
	// DefaultAddress is the factory I2C address of NT3H2x11 chips
	DefaultAddress = 0x55

	// Max clock frequency (400 kHz fast mode).
	maxClockFreq = 400 * physic.KiloHertz
)

// Transport implements the ntagi2c.Transport interface for I2C
// communication. A page transaction addresses the chip's memory by the
// MEMA register byte followed by exactly one 16-byte page.
type Transport struct {
	dev     *i2c.Dev
	bus     i2c.BusCloser
	busName string
}

// New opens the named I2C bus (empty string selects the first available
// bus) and creates a transport for a chip at the factory address.
func New(busName string) (*Transport, error) {
	return NewWithAddress(busName, DefaultAddress)
}

// NewWithAddress opens the named I2C bus for a chip at a non-factory
// address.
func NewWithAddress(busName string, addr uint16) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %q: %w", busName, err)
	}

	_ = bus.SetSpeed(maxClockFreq) // Ignore error, continue with default speed

	return &Transport{
		dev:     &i2c.Dev{Addr: addr, Bus: bus},
		bus:     bus,
		busName: busName,
	}, nil
}

// NewWithBus creates a transport on an already-open bus. The caller
// retains ownership of the bus; Close does not release it. Used with
// i2ctest playback buses in tests.
func NewWithBus(bus i2c.Bus, addr uint16, busName string) *Transport {
	return &Transport{
		dev:     &i2c.Dev{Addr: addr, Bus: bus},
		busName: busName,
	}
}

// ReadPage reads one 16-byte page. The chip auto-increments from the
// MEMA byte written before the repeated-start read.
func (t *Transport) ReadPage(page uint8) ([]byte, error) {
	buf := make([]byte, ntagi2c.PageSize)
	if err := t.dev.Tx([]byte{page}, buf); err != nil {
		return nil, ntagi2c.NewBusReadError("ReadPage", t.busName, page, err)
	}
	return buf, nil
}

// WritePage writes one 16-byte page in a single transaction
func (t *Transport) WritePage(page uint8, data []byte) error {
	if len(data) != ntagi2c.PageSize {
		return fmt.Errorf("%w: page write requires %d bytes, got %d",
			ntagi2c.ErrInvalidParameter, ntagi2c.PageSize, len(data))
	}

	frame := make([]byte, 1+ntagi2c.PageSize)
	frame[0] = page
	copy(frame[1:], data)

	if err := t.dev.Tx(frame, nil); err != nil {
		return ntagi2c.NewBusWriteError("WritePage", t.busName, page, err)
	}
	return nil
}

// Close closes the transport, releasing the bus if this transport
// opened it
func (t *Transport) Close() error {
	if t.bus == nil {
		return nil
	}
	if err := t.bus.Close(); err != nil {
		return fmt.Errorf("failed to close I2C bus %q: %w", t.busName, err)
	}
	return nil
}

// IsConnected returns true if the transport is connected
func (t *Transport) IsConnected() bool {
	return t.dev != nil
}

// Type returns the transport type
func (*Transport) Type() ntagi2c.TransportType {
	return ntagi2c.TransportI2C
}

// Ensure Transport implements ntagi2c.Transport
var _ ntagi2c.Transport = (*Transport)(nil)
