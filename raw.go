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

import "fmt"

const (
	pageCount = 256

	// RawSize is the flat byte address space formed by all pages,
	// before region mapping.
	RawSize = pageCount * PageSize
)

// ReadRaw reads an arbitrary byte range from the flat raw address space,
// splitting it into the minimum number of whole-page transactions. Each
// page touched is read exactly once.
func (d *Device) ReadRaw(offset, length int) ([]byte, error) {
	if err := checkRawRange(offset, length); err != nil {
		return nil, err
	}
	if length == 0 {
		return []byte{}, nil
	}

	out := make([]byte, length)
	cursor := 0

	// Misaligned head: read the covering page, keep its tail.
	if misalign := offset % PageSize; misalign != 0 {
		page, err := d.ReadPage(uint8(offset / PageSize))
		if err != nil {
			return nil, err
		}
		n := min(PageSize-misalign, length)
		copy(out[:n], page[misalign:misalign+n])
		cursor += n
		offset += n
	}

	// Fully covered pages go straight into the output buffer.
	for length-cursor >= PageSize {
		page, err := d.ReadPage(uint8(offset / PageSize))
		if err != nil {
			return nil, err
		}
		copy(out[cursor:cursor+PageSize], page)
		cursor += PageSize
		offset += PageSize
	}

	// Partial tail: read the page, keep its leading bytes.
	if cursor < length {
		page, err := d.ReadPage(uint8(offset / PageSize))
		if err != nil {
			return nil, err
		}
		copy(out[cursor:], page[:length-cursor])
	}

	return out, nil
}

// WriteRaw writes an arbitrary byte range into the flat raw address
// space. Partially covered pages at either end are handled by
// read-modify-write so bytes outside the range are preserved; fully
// covered pages are written directly with no preceding read.
//
// Writes are not transactional across pages: a bus failure partway
// through leaves earlier pages committed and later pages untouched.
func (d *Device) WriteRaw(offset int, data []byte) error {
	length := len(data)
	if err := checkRawRange(offset, length); err != nil {
		return err
	}
	if length == 0 {
		return nil
	}

	cursor := 0

	// Misaligned head. When the whole range fits inside this page the
	// single read-modify-write below is the only transaction pair.
	if misalign := offset % PageSize; misalign != 0 {
		n := min(PageSize-misalign, length)
		if err := d.rmwPage(uint8(offset/PageSize), misalign, data[:n]); err != nil {
			return err
		}
		cursor += n
		offset += n
	}

	for length-cursor >= PageSize {
		if err := d.WritePage(uint8(offset/PageSize), data[cursor:cursor+PageSize]); err != nil {
			return err
		}
		cursor += PageSize
		offset += PageSize
	}

	if cursor < length {
		if err := d.rmwPage(uint8(offset/PageSize), 0, data[cursor:]); err != nil {
			return err
		}
	}

	return nil
}

// rmwPage rewrites part of a page, preserving the bytes outside the
// covered range.
func (d *Device) rmwPage(page uint8, start int, data []byte) error {
	existing, err := d.ReadPage(page)
	if err != nil {
		return err
	}
	buf := make([]byte, PageSize)
	copy(buf, existing)
	copy(buf[start:], data)
	return d.WritePage(page, buf)
}

func checkRawRange(offset, length int) error {
	if offset < 0 || length < 0 {
		return fmt.Errorf("%w: negative offset or length", ErrInvalidParameter)
	}
	if offset+length > RawSize {
		return fmt.Errorf("%w: raw range %d+%d exceeds %d bytes",
			ErrOutOfRange, offset, length, RawSize)
	}
	return nil
}
