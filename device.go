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
	"time"

	"github.com/ZaparooProject/go-ntagi2c/internal/syncutil"
)

// DefaultCommitInterval is the minimum time the chip needs after a page
// write before any subsequent bus access is safe. The NT3H2x11 datasheet
// specifies 4.5 ms typical for an EEPROM program cycle; 5 ms gives margin.
const DefaultCommitInterval = 5 * time.Millisecond

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// Clock supplies the time source and yield primitive for the
	// commit wait loop
	Clock Clock
	// RetryConfig configures retry behavior for page transactions.
	// Nil means no automatic retries.
	RetryConfig *RetryConfig
	// CommitInterval is the EEPROM write commit latency to enforce
	CommitInterval time.Duration
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		Clock:          systemClock{},
		CommitInterval: DefaultCommitInterval,
	}
}

// Device represents one NTAG I2C chip reachable through a page transport.
//
// The device owns the write-commit interlock: after every page write the
// chip's internal EEPROM controller needs CommitInterval before it will
// accept another transaction, and Device enforces that window across all
// of its operations. The interlock state is per-Device, so independent
// chips (or test harnesses) do not rate-limit each other. If two Device
// instances are created for the same physical chip, callers must
// serialize access themselves.
//
// Thread Safety: page transactions are serialized on an internal mutex,
// but multi-page operations (ReadRaw, WriteNDEF, ...) are not atomic.
// Drive a Device from a single goroutine or add external locking.
type Device struct {
	transport Transport
	config    *DeviceConfig
	mu        syncutil.Mutex
	lastWrite time.Time
}

// New creates a Device on top of the given page transport
func New(transport Transport, opts ...Option) (*Device, error) {
	if transport == nil {
		return nil, fmt.Errorf("%w: nil transport", ErrInvalidParameter)
	}

	config := DefaultDeviceConfig()
	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	if config.RetryConfig != nil {
		transport = NewTransportWithRetry(transport, config.RetryConfig)
	}

	return &Device{
		transport: transport,
		config:    config,
	}, nil
}

// Close closes the underlying transport
func (d *Device) Close() error {
	if err := d.transport.Close(); err != nil {
		return fmt.Errorf("failed to close transport: %w", err)
	}
	return nil
}

// Transport returns the transport the device operates on
func (d *Device) Transport() Transport {
	return d.transport
}

// waitCommit busy-waits until the commit interval has elapsed since the
// last page write, yielding the processor on each poll iteration. The
// wait has no cancellation; it is bounded by CommitInterval.
func (d *Device) waitCommit() {
	clock := d.config.Clock
	deadline := d.lastWrite.Add(d.config.CommitInterval)
	for clock.Now().Before(deadline) {
		clock.Yield()
	}
}

// ReadPage reads one full page from the chip, honoring the commit
// interlock armed by any preceding write.
func (d *Device) ReadPage(page uint8) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.waitCommit()

	data, err := d.transport.ReadPage(page)
	if err != nil {
		return nil, wrapBusError("ReadPage", page, err, NewBusReadError)
	}
	if len(data) != PageSize {
		return nil, NewBusReadError("ReadPage", "", page,
			fmt.Errorf("%w: transport returned %d bytes", ErrInvalidFormat, len(data)))
	}
	return data, nil
}

// WritePage writes one full page to the chip. The commit timer is armed
// after every write, including writes to SRAM-backed pages that strictly
// need no delay.
func (d *Device) WritePage(page uint8, data []byte) error {
	if len(data) != PageSize {
		return fmt.Errorf("%w: page write requires %d bytes, got %d",
			ErrInvalidParameter, PageSize, len(data))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.waitCommit()

	err := d.transport.WritePage(page, data)
	// Arm the commit timer unconditionally: a failed transaction may
	// still have started an EEPROM program cycle.
	d.lastWrite = d.config.Clock.Now()
	if err != nil {
		return wrapBusError("WritePage", page, err, NewBusWriteError)
	}
	return nil
}

// wrapBusError ensures transport failures surface as *TransportError
// without double-wrapping errors from transports that already comply.
func wrapBusError(
	op string, page uint8, err error,
	wrap func(op, port string, page uint8, cause error) *TransportError,
) error {
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return wrap(op, "", page, err)
}
