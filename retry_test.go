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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastRetryConfig keeps retry tests quick
func fastRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        2 * time.Millisecond,
		BackoffMultiplier: 2.0,
		RetryTimeout:      time.Second,
	}
}

func TestRetryWithConfig_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := RetryWithConfig(context.Background(), fastRetryConfig(), func() error {
		attempts++
		if attempts < 3 {
			return ErrBusRead
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithConfig_StopsOnPermanentError(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := RetryWithConfig(context.Background(), fastRetryConfig(), func() error {
		attempts++
		return ErrOutOfRange
	})

	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 1, attempts, "non-retryable errors must not be retried")
}

func TestRetryWithConfig_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := RetryWithConfig(context.Background(), fastRetryConfig(), func() error {
		attempts++
		return ErrBusWrite
	})

	require.ErrorIs(t, err, ErrBusWrite)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithConfig_ZeroAttemptsRunsOnce(t *testing.T) {
	t.Parallel()

	config := fastRetryConfig()
	config.MaxAttempts = 0

	attempts := 0
	err := RetryWithConfig(context.Background(), config, func() error {
		attempts++
		return ErrBusRead
	})

	require.ErrorIs(t, err, ErrBusRead)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithConfig_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := RetryWithConfig(ctx, fastRetryConfig(), func() error {
		attempts++
		return ErrBusRead
	})

	require.Error(t, err)
	assert.LessOrEqual(t, attempts, 1)
}

func TestCalculateJitteredSleep_Bounds(t *testing.T) {
	t.Parallel()

	base := 10 * time.Millisecond
	for i := 0; i < 100; i++ {
		sleep := calculateJitteredSleep(base, 0.1)
		assert.GreaterOrEqual(t, sleep, base)
		assert.LessOrEqual(t, sleep, base+time.Millisecond)
	}

	assert.Equal(t, base, calculateJitteredSleep(base, 0))
}
