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
	"context"
	"fmt"
	"sync"
	"time"
)

// PageSize is the atomic unit of bus transfer. Every transport call moves
// exactly one full page; partial-page transactions are never issued.
const PageSize = 16

// Transport defines the interface for page-level communication with
// NTAG I2C family chips. The chip exposes its entire address space as
// 16-byte pages addressed by an 8-bit index.
type Transport interface {
	// ReadPage reads one full page and returns exactly PageSize bytes
	ReadPage(page uint8) ([]byte, error)

	// WritePage writes one full page; data must be exactly PageSize bytes
	WritePage(page uint8, data []byte) error

	// Close closes the transport connection
	Close() error

	// IsConnected returns true if the transport is connected
	IsConnected() bool

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportI2C represents I2C bus transport.
	TransportI2C TransportType = "i2c"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

// TransportWithRetry wraps a Transport with retry capabilities
type TransportWithRetry struct {
	transport Transport
	config    *RetryConfig
}

// NewTransportWithRetry creates a new transport wrapper with retry logic
func NewTransportWithRetry(transport Transport, config *RetryConfig) *TransportWithRetry {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &TransportWithRetry{
		transport: transport,
		config:    config,
	}
}

// ReadPage reads a page with retry logic
func (t *TransportWithRetry) ReadPage(page uint8) ([]byte, error) {
	var result []byte
	err := RetryWithConfig(context.Background(), t.config, func() error {
		var err error
		result, err = t.transport.ReadPage(page)
		return err
	})
	return result, err
}

// WritePage writes a page with retry logic.
//
// Note: retrying a failed write re-arms the chip's EEPROM commit cycle,
// which is safe because page writes are idempotent.
func (t *TransportWithRetry) WritePage(page uint8, data []byte) error {
	return RetryWithConfig(context.Background(), t.config, func() error {
		return t.transport.WritePage(page, data)
	})
}

// Close closes the transport connection
func (t *TransportWithRetry) Close() error {
	if err := t.transport.Close(); err != nil {
		return fmt.Errorf("failed to close underlying transport: %w", err)
	}
	return nil
}

// IsConnected returns true if the transport is connected
func (t *TransportWithRetry) IsConnected() bool {
	return t.transport.IsConnected()
}

// Type returns the transport type
func (t *TransportWithRetry) Type() TransportType {
	return t.transport.Type()
}

// SetRetryConfig updates the retry configuration
func (t *TransportWithRetry) SetRetryConfig(config *RetryConfig) {
	t.config = config
}

// MemoryTransport provides an in-memory implementation of Transport for
// testing. It models the chip as a flat 256-page store, records every
// transaction for bus-traffic assertions, and supports per-page fault
// injection.
type MemoryTransport struct {
	readErrs  map[uint8]error
	writeErrs map[uint8]error
	Log       []PageTransaction
	pages     [pageCount][PageSize]byte
	mu        sync.Mutex
	connected bool
}

// PageTransaction records a single page-level bus transaction
type PageTransaction struct {
	Time  time.Time
	Write bool
	Page  uint8
}

// NewMemoryTransport creates a new in-memory transport with zeroed pages
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{
		connected: true,
		readErrs:  make(map[uint8]error),
		writeErrs: make(map[uint8]error),
	}
}

// ReadPage implements Transport
func (m *MemoryTransport) ReadPage(page uint8) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil, ErrTransportClosed
	}
	m.Log = append(m.Log, PageTransaction{Page: page, Time: time.Now()})

	if err, ok := m.readErrs[page]; ok {
		return nil, err
	}

	out := make([]byte, PageSize)
	copy(out, m.pages[page][:])
	return out, nil
}

// WritePage implements Transport
func (m *MemoryTransport) WritePage(page uint8, data []byte) error {
	if len(data) != PageSize {
		return fmt.Errorf("%w: page write requires %d bytes, got %d",
			ErrInvalidParameter, PageSize, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return ErrTransportClosed
	}
	m.Log = append(m.Log, PageTransaction{Page: page, Write: true, Time: time.Now()})

	if err, ok := m.writeErrs[page]; ok {
		return err
	}

	copy(m.pages[page][:], data)
	return nil
}

// Close implements Transport
func (m *MemoryTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

// IsConnected implements Transport
func (m *MemoryTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Type implements Transport
func (*MemoryTransport) Type() TransportType {
	return TransportMock
}

// SetPage seeds the backing store without logging a transaction
func (m *MemoryTransport) SetPage(page uint8, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.pages[page][:], data)
}

// Page returns a copy of the backing store page without logging
func (m *MemoryTransport) Page(page uint8) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, PageSize)
	copy(out, m.pages[page][:])
	return out
}

// Bytes returns a copy of the byte range [offset, offset+length) from
// the backing store, ignoring page boundaries. Reference model for
// translator tests.
func (m *MemoryTransport) Bytes(offset, length int) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, length)
	for i := range out {
		addr := offset + i
		out[i] = m.pages[addr/PageSize][addr%PageSize]
	}
	return out
}

// FailRead injects an error for reads of the given page; nil clears it
func (m *MemoryTransport) FailRead(page uint8, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.readErrs, page)
		return
	}
	m.readErrs[page] = err
}

// FailWrite injects an error for writes of the given page; nil clears it
func (m *MemoryTransport) FailWrite(page uint8, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.writeErrs, page)
		return
	}
	m.writeErrs[page] = err
}

// TransactionCount returns the number of transactions issued so far
func (m *MemoryTransport) TransactionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Log)
}

// ResetLog clears the transaction log
func (m *MemoryTransport) ResetLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Log = nil
}

// Ensure implementations satisfy Transport
var (
	_ Transport = (*TransportWithRetry)(nil)
	_ Transport = (*MemoryTransport)(nil)
)
