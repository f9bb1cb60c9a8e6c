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

// Package i2c detects NTAG I2C chips on Linux I2C buses
package i2c

import (
	"context"
	"runtime"

	"github.com/ZaparooProject/go-ntagi2c/detection"
)

const (
	// DefaultAddress is the factory I2C address of NT3H2x11 chips
	DefaultAddress = 0x55
)

// detector implements the Detector interface for I2C devices
type detector struct{}

// New creates a new I2C detector
func New() detection.Detector {
	return &detector{}
}

// init registers the detector on package import
func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return "i2c"
}

// Detect searches for NTAG I2C chips on I2C buses
func (*detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	// I2C device nodes are Linux-specific
	if runtime.GOOS != "linux" {
		return nil, detection.ErrUnsupportedPlatform
	}
	return detectLinux(ctx, opts)
}
