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

//go:build linux

package i2c

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/ZaparooProject/go-ntagi2c/detection"
	"golang.org/x/sys/unix"
)

const (
	// i2cSlave is the ioctl command to set the slave address
	i2cSlave = 0x0703

	// nxpManufacturerID is the first serial byte of all NXP tags
	nxpManufacturerID = 0x04
)

// detectLinux enumerates /dev/i2c-* device nodes and probes each for a
// chip answering the NTAG I2C factory address.
func detectLinux(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	buses, err := filepath.Glob("/dev/i2c-*")
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate I2C buses: %w", err)
	}
	sort.Strings(buses)

	var devices []detection.DeviceInfo
	for _, busPath := range buses {
		select {
		case <-ctx.Done():
			return devices, ctx.Err()
		default:
		}

		if opts.Mode == detection.Passive {
			devices = append(devices, detection.DeviceInfo{
				Transport:  "i2c",
				Path:       busPath,
				Address:    DefaultAddress,
				Confidence: detection.Low,
			})
			continue
		}

		if info, found := probeBus(busPath); found {
			devices = append(devices, info)
		}
	}

	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}

// probeBus checks whether a chip at the factory address ACKs on the
// given bus and, if so, whether its header looks like an NTAG I2C chip.
func probeBus(busPath string) (detection.DeviceInfo, bool) {
	info := detection.DeviceInfo{
		Transport: "i2c",
		Path:      busPath,
		Address:   DefaultAddress,
		Metadata:  make(map[string]string),
	}

	fd, err := unix.Open(busPath, unix.O_RDWR, 0)
	if err != nil {
		return info, false
	}
	defer func() { _ = unix.Close(fd) }()

	if err := unix.IoctlSetInt(fd, i2cSlave, DefaultAddress); err != nil {
		return info, false
	}

	// Set the memory address pointer to page 0 and read the header
	// page. A bare ACK already means something answers at the address.
	if _, err := unix.Write(fd, []byte{0x00}); err != nil {
		return info, false
	}
	info.Confidence = detection.Medium

	header := make([]byte, 16)
	if n, err := unix.Read(fd, header); err != nil || n != len(header) {
		return info, true
	}

	// Serial number starts at header byte 1; NXP chips lead with 0x04.
	if header[1] == nxpManufacturerID {
		info.Confidence = detection.High
		info.Metadata["manufacturer"] = "NXP"
	}

	return info, true
}
