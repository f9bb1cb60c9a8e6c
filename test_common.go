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

//go:build !prod

package ntagi2c

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// FakeClock is a Clock whose time only moves when the commit wait loop
// yields. It makes the 5 ms interlock observable without real delays.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	step   time.Duration
	yields int
}

// NewFakeClock creates a fake clock that advances by step on every Yield
func NewFakeClock(step time.Duration) *FakeClock {
	return &FakeClock{
		now:  time.Unix(0, 0),
		step: step,
	}
}

// Now implements Clock
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Yield implements Clock by advancing the fake time
func (c *FakeClock) Yield() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	c.yields++
}

// Advance moves the fake time forward without a yield
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Yields returns how many times the wait loop yielded
func (c *FakeClock) Yields() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yields
}

// newTestDevice creates a device on a fresh in-memory transport with a
// fake clock, so tests never sleep out real commit intervals.
func newTestDevice(t *testing.T) (*Device, *MemoryTransport) {
	t.Helper()
	transport := NewMemoryTransport()
	device, err := New(transport, WithClock(NewFakeClock(time.Millisecond)))
	require.NoError(t, err)
	return device, transport
}
