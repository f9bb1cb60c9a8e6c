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

// TLV constants per NFC Forum Type 2 Tag specification. The chip stores
// a single NDEF Message TLV at the start of the user data region.
const (
	// TLVTypeNDEF marks an NDEF Message TLV
	TLVTypeNDEF = 0x03
	// TLVTypeTerminator marks the end of the data area; no length field
	TLVTypeTerminator = 0xFE

	// tlvExtendedMarker in the length byte selects the 3-byte
	// big-endian length form for payloads of 255 bytes and up
	tlvExtendedMarker = 0xFF

	tlvShortHeaderLen    = 2
	tlvExtendedHeaderLen = 4

	// maxNDEFPayload reserves the extended header plus terminator
	// unconditionally, even when the short form would need less room.
	// External consumers depend on this exact rejection threshold.
	maxNDEFPayload = UserDataLen - tlvExtendedHeaderLen
)

// ReadNDEF reads the NDEF message envelope stored at the start of the
// user data region and returns its payload. The returned slice is owned
// by the caller. Inner record semantics are out of scope; see
// github.com/hsanjuan/go-ndef for parsing the payload.
func (d *Device) ReadNDEF() ([]byte, error) {
	// The envelope header always fits in the first user data page.
	header, err := d.ReadPage(1)
	if err != nil {
		return nil, err
	}

	if header[0] != TLVTypeNDEF {
		return nil, fmt.Errorf("%w: first byte 0x%02X", ErrNDEFNotFound, header[0])
	}

	var length, payloadOffset int
	if header[1] == tlvExtendedMarker {
		length = int(binary.BigEndian.Uint16(header[2:4]))
		payloadOffset = tlvExtendedHeaderLen
	} else {
		length = int(header[1])
		payloadOffset = tlvShortHeaderLen
	}

	return d.ReadUser(payloadOffset, length)
}

// WriteNDEF replaces the NDEF message envelope wholesale: header,
// payload and terminator. There is no partial-update path.
//
// A failed payload write leaves the already-written header in place.
// The terminator write's own failure is not propagated; the message
// itself is intact at that point and readers tolerate a stale byte
// after it.
func (d *Device) WriteNDEF(payload []byte) error {
	if len(payload) >= maxNDEFPayload {
		return fmt.Errorf("%w: NDEF payload %d bytes, limit %d",
			ErrDataTooLarge, len(payload), maxNDEFPayload)
	}

	var payloadOffset int
	if len(payload) >= int(tlvExtendedMarker) {
		header := []byte{
			TLVTypeNDEF,
			tlvExtendedMarker,
			byte(len(payload) >> 8),
			byte(len(payload)),
		}
		if err := d.WriteUser(0, header); err != nil {
			return err
		}
		payloadOffset = tlvExtendedHeaderLen
	} else {
		header := []byte{TLVTypeNDEF, byte(len(payload))}
		if err := d.WriteUser(0, header); err != nil {
			return err
		}
		payloadOffset = tlvShortHeaderLen
	}

	if err := d.WriteUser(payloadOffset, payload); err != nil {
		return err
	}

	_ = d.WriteUser(payloadOffset+len(payload), []byte{TLVTypeTerminator})

	return nil
}
