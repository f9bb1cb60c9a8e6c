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

// Package detection locates NTAG I2C chips on the buses of the host
package detection

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Mode represents the level of invasiveness for device detection
type Mode int

const (
	// Passive mode only lists candidate buses without any communication
	Passive Mode = iota
	// Safe mode probes the chip address and verifies the manufacturer byte
	Safe
)

// Confidence represents the confidence level of device detection
type Confidence int

const (
	// Low confidence - a bus exists but the chip was not probed
	Low Confidence = iota
	// Medium confidence - a device ACKed the chip address
	Medium
	// High confidence - the device header matches an NTAG I2C chip
	High
)

// DeviceInfo represents a detected chip
type DeviceInfo struct {
	// Additional metadata (e.g., manufacturer byte)
	Metadata map[string]string
	// Transport type, currently always "i2c"
	Transport string
	// Connection path (e.g., "/dev/i2c-1")
	Path string
	// I2C address the chip answered on
	Address uint16
	// Detection confidence level
	Confidence Confidence
}

// String returns a human-readable representation of the device
func (d DeviceInfo) String() string {
	confidence := "unknown"
	switch d.Confidence {
	case Low:
		confidence = "low"
	case Medium:
		confidence = "medium"
	case High:
		confidence = "high"
	}
	return fmt.Sprintf("%s device at %s addr 0x%02X (confidence: %s)",
		d.Transport, d.Path, d.Address, confidence)
}

// Options configures the detection behavior
type Options struct {
	// Which transports to check (empty = all)
	Transports []string
	// Maximum time to wait for detection
	Timeout time.Duration
	// Detection invasiveness level
	Mode Mode
}

// DefaultOptions returns sensible default detection options
func DefaultOptions() Options {
	return Options{
		Mode:    Safe,
		Timeout: 5 * time.Second,
	}
}

// Detector interface for transport-specific device detection
type Detector interface {
	// Detect searches for devices using the given options
	Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error)
	// Transport returns the transport type this detector handles
	Transport() string
}

// Errors
var (
	// ErrNoDevicesFound indicates no NTAG I2C devices were detected
	ErrNoDevicesFound = errors.New("no NTAG I2C devices found")
	// ErrUnsupportedPlatform indicates the platform doesn't support this detection method
	ErrUnsupportedPlatform = errors.New("platform not supported")
)

// registry holds all registered detectors
var registry []Detector

// RegisterDetector adds a detector to the registry
func RegisterDetector(d Detector) {
	registry = append(registry, d)
}

// getDetectors returns detectors filtered by transport types
func getDetectors(transports []string) []Detector {
	if len(transports) == 0 {
		return registry
	}

	var filtered []Detector
	for _, d := range registry {
		for _, t := range transports {
			if d.Transport() == t {
				filtered = append(filtered, d)
				break
			}
		}
	}
	return filtered
}

// DetectAll searches for NTAG I2C chips with all registered detectors
func DetectAll(ctx context.Context, opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}

	detectors := getDetectors(opts.Transports)
	if len(detectors) == 0 {
		return nil, errors.New("no detectors available for specified transports")
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var allDevices []DeviceInfo
	var errs []error
	for _, detector := range detectors {
		devices, err := detector.Detect(ctx, opts)
		if err != nil && !errors.Is(err, ErrNoDevicesFound) &&
			!errors.Is(err, ErrUnsupportedPlatform) {
			errs = append(errs, err)
			continue
		}
		allDevices = append(allDevices, devices...)
	}

	if len(allDevices) == 0 {
		if len(errs) > 0 {
			return nil, fmt.Errorf("%w: %w", ErrNoDevicesFound, errors.Join(errs...))
		}
		return nil, ErrNoDevicesFound
	}
	return allDevices, nil
}
