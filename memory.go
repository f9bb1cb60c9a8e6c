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
	"encoding/binary"
	"fmt"
)

// NT3H2x11 memory layout. All multi-byte numeric fields on this chip
// are little-endian; the raw translator and bus layers are byte-agnostic.
const (
	// HeaderLen is the size of the device header region (page 0) holding
	// the serial number and capability container.
	HeaderLen = 16
	// UserDataLen is the size of the user EEPROM region
	UserDataLen = 884
	// SRAMLen is the size of the volatile SRAM mirror region
	SRAMLen = 64

	userDataBase = 16              // pages 1-56
	sramBase     = 248 * PageSize  // page 248

	serialOffset = 1 // 6 bytes, little-endian 48-bit value
	serialLen    = 6
	ccOffset     = 12 // 4 bytes, little-endian
	ccLen        = 4
)

// ReadUser reads from the user data EEPROM region
func (d *Device) ReadUser(offset, length int) ([]byte, error) {
	if length == 0 {
		return []byte{}, nil
	}
	if err := checkRegion(offset, length, UserDataLen); err != nil {
		return nil, err
	}
	return d.ReadRaw(userDataBase+offset, length)
}

// WriteUser writes into the user data EEPROM region
func (d *Device) WriteUser(offset int, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := checkRegion(offset, len(data), UserDataLen); err != nil {
		return err
	}
	return d.WriteRaw(userDataBase+offset, data)
}

// ReadSRAM reads from the SRAM mirror region
func (d *Device) ReadSRAM(offset, length int) ([]byte, error) {
	if length == 0 {
		return []byte{}, nil
	}
	if err := checkRegion(offset, length, SRAMLen); err != nil {
		return nil, err
	}
	return d.ReadRaw(sramBase+offset, length)
}

// WriteSRAM writes into the SRAM mirror region
func (d *Device) WriteSRAM(offset int, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := checkRegion(offset, len(data), SRAMLen); err != nil {
		return err
	}
	return d.WriteRaw(sramBase+offset, data)
}

// Serial returns the chip's 48-bit serial number
func (d *Device) Serial() (uint64, error) {
	raw, err := d.ReadRaw(serialOffset, serialLen)
	if err != nil {
		return 0, err
	}
	var buf [8]byte
	copy(buf[:], raw)
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// CapabilityContainer returns the capability container from the device header
func (d *Device) CapabilityContainer() (uint32, error) {
	raw, err := d.ReadRaw(ccOffset, ccLen)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(raw), nil
}

// SetCapabilityContainer writes the capability container in the device
// header. The CC bytes are write-once on real silicon; rewriting an
// already-programmed container only sets additional bits.
func (d *Device) SetCapabilityContainer(cc uint32) error {
	var buf [ccLen]byte
	binary.LittleEndian.PutUint32(buf[:], cc)
	return d.WriteRaw(ccOffset, buf[:])
}

// checkRegion validates a region-relative byte range. Violations are
// caller errors and never reach the bus.
func checkRegion(offset, length, bound int) error {
	if offset < 0 || length < 0 {
		return fmt.Errorf("%w: negative offset or length", ErrInvalidParameter)
	}
	if offset+length > bound {
		return fmt.Errorf("%w: range %d+%d exceeds region size %d",
			ErrOutOfRange, offset, length, bound)
	}
	return nil
}
