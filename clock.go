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
	"runtime"
	"time"
)

// Clock abstracts the time source and the cooperative-yield primitive used
// while waiting out the chip's EEPROM commit latency. Tests substitute a
// fake clock so the wait is observable without real delays.
type Clock interface {
	// Now returns the current time. Values from time.Now carry a
	// monotonic reading, so comparisons are immune to wall-clock jumps.
	Now() time.Time

	// Yield gives up the processor for one poll iteration of the
	// commit wait loop.
	Yield()
}

// systemClock is the default Clock backed by the runtime
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Yield() { runtime.Gosched() }
