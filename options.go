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
	"fmt"
	"time"
)

// Option configures a Device during New
type Option func(*DeviceConfig) error

// WithClock replaces the time source used for the commit interlock.
// Intended for tests; the default is the system clock with
// runtime.Gosched as the yield primitive.
func WithClock(clock Clock) Option {
	return func(c *DeviceConfig) error {
		if clock == nil {
			return fmt.Errorf("%w: nil clock", ErrInvalidParameter)
		}
		c.Clock = clock
		return nil
	}
}

// WithCommitInterval overrides the enforced EEPROM commit latency.
// Values below the datasheet minimum risk corrupted writes on real
// hardware; this exists for chips with faster program cycles and for
// tests.
func WithCommitInterval(interval time.Duration) Option {
	return func(c *DeviceConfig) error {
		if interval < 0 {
			return fmt.Errorf("%w: negative commit interval", ErrInvalidParameter)
		}
		c.CommitInterval = interval
		return nil
	}
}

// WithRetryConfig enables automatic retries of failed page transactions.
// By default the driver fails fast and never retries.
func WithRetryConfig(config *RetryConfig) Option {
	return func(c *DeviceConfig) error {
		c.RetryConfig = config
		return nil
	}
}
