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

/*
Package ntagi2c provides a pure Go driver for the NXP NT3H2x11 family of
NFC-readable EEPROM/SRAM chips (NTAG I2C / NTAG I2C plus) attached to an
I2C bus.

The chip exposes its entire 4 KB address space as 256 fixed 16-byte
pages and requires a short commit delay after every EEPROM write before
the next bus access. This package turns arbitrary-offset, arbitrary-length
reads and writes into correctly sequenced whole-page transactions,
enforces the write-commit interlock, maps the named memory regions
(device header, user EEPROM, SRAM mirror), and frames/unframes the NDEF
TLV envelope stored in user memory.

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-ntagi2c"
	    "github.com/ZaparooProject/go-ntagi2c/transport/i2c"
	)

	transport, err := i2c.New("/dev/i2c-1")
	if err != nil {
	    log.Fatal(err)
	}
	defer transport.Close()

	device, err := ntagi2c.New(transport)
	if err != nil {
	    log.Fatal(err)
	}

	serial, err := device.Serial()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Printf("chip serial: %012x\n", serial)

	payload, err := device.ReadNDEF()
	if err != nil {
	    log.Fatal(err)
	}

The NDEF payload is opaque to this package; pair it with a message
library such as github.com/hsanjuan/go-ndef to build or parse records.

Error Handling:

All operations return errors that can be inspected with errors.Is:

	if errors.Is(err, ntagi2c.ErrOutOfRange) {
	    // caller-supplied range exceeds the region bound
	}

Thread Safety:

Individual page transactions are serialized internally, but multi-page
operations are not atomic and a Device is not generally thread-safe.
Serialize all access to a physical chip, and preferably to all chips
sharing one bus.
*/
package ntagi2c
