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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NilTransport(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestWritePage_RequiresFullPage(t *testing.T) {
	t.Parallel()

	device, transport := newTestDevice(t)

	err := device.WritePage(0, []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidParameter)
	assert.Zero(t, transport.TransactionCount(), "short write must not reach the bus")

	err = device.WritePage(0, make([]byte, PageSize+1))
	require.ErrorIs(t, err, ErrInvalidParameter)
	assert.Zero(t, transport.TransactionCount())
}

func TestReadPage_RoundTrip(t *testing.T) {
	t.Parallel()

	device, transport := newTestDevice(t)

	want := make([]byte, PageSize)
	for i := range want {
		want[i] = byte(i + 1)
	}
	transport.SetPage(7, want)

	got, err := device.ReadPage(7)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWritePage_CommitInterlock(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Millisecond)
	transport := NewMemoryTransport()
	device, err := New(transport, WithClock(clock))
	require.NoError(t, err)

	page := make([]byte, PageSize)
	require.NoError(t, device.WritePage(1, page))
	armed := clock.Now()

	// Second write must not start before the commit interval elapses.
	require.NoError(t, device.WritePage(2, page))
	assert.GreaterOrEqual(t, clock.Now().Sub(armed), DefaultCommitInterval)
	assert.GreaterOrEqual(t, clock.Yields(), 5, "wait loop should yield cooperatively")
}

func TestReadPage_WaitsForCommit(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Millisecond)
	transport := NewMemoryTransport()
	device, err := New(transport, WithClock(clock))
	require.NoError(t, err)

	require.NoError(t, device.WritePage(1, make([]byte, PageSize)))
	armed := clock.Now()

	_, err = device.ReadPage(1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, clock.Now().Sub(armed), DefaultCommitInterval)
}

func TestReadPage_NoWaitBeforeFirstWrite(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Millisecond)
	transport := NewMemoryTransport()
	device, err := New(transport, WithClock(clock))
	require.NoError(t, err)

	_, err = device.ReadPage(0)
	require.NoError(t, err)
	assert.Zero(t, clock.Yields(), "reads before any write must not wait")
}

// Real-clock version of the interlock property: two back-to-back page
// writes are at least the commit interval apart on the bus.
func TestWritePage_CommitInterlockWallClock(t *testing.T) {
	t.Parallel()

	transport := NewMemoryTransport()
	device, err := New(transport)
	require.NoError(t, err)

	page := make([]byte, PageSize)
	require.NoError(t, device.WritePage(1, page))
	require.NoError(t, device.WritePage(2, page))

	require.Len(t, transport.Log, 2)
	gap := transport.Log[1].Time.Sub(transport.Log[0].Time)
	assert.GreaterOrEqual(t, gap, DefaultCommitInterval)
}

func TestWritePage_ArmsTimerOnFailure(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Millisecond)
	transport := NewMemoryTransport()
	device, err := New(transport, WithClock(clock))
	require.NoError(t, err)

	transport.FailWrite(3, errors.New("nak"))
	err = device.WritePage(3, make([]byte, PageSize))
	require.ErrorIs(t, err, ErrBusWrite)
	armed := clock.Now()

	// A failed write may still have started a program cycle.
	_, err = device.ReadPage(0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, clock.Now().Sub(armed), DefaultCommitInterval)
}

func TestWritePage_WrapsTransportErrors(t *testing.T) {
	t.Parallel()

	device, transport := newTestDevice(t)
	cause := errors.New("bus glitch")
	transport.FailWrite(9, cause)

	err := device.WritePage(9, make([]byte, PageSize))
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, uint8(9), te.Page)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrBusWrite)
}

func TestWithCommitInterval(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Millisecond)
	transport := NewMemoryTransport()
	device, err := New(transport,
		WithClock(clock),
		WithCommitInterval(10*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, device.WritePage(1, make([]byte, PageSize)))
	armed := clock.Now()
	require.NoError(t, device.WritePage(2, make([]byte, PageSize)))
	assert.GreaterOrEqual(t, clock.Now().Sub(armed), 10*time.Millisecond)
}

func TestDeviceClose(t *testing.T) {
	t.Parallel()

	device, transport := newTestDevice(t)
	require.NoError(t, device.Close())
	assert.False(t, transport.IsConnected())

	_, err := device.ReadPage(0)
	require.ErrorIs(t, err, ErrTransportClosed)
}
