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

// ntagtool reads and writes NTAG I2C chips over an I2C bus: chip info,
// memory dumps, and NDEF text/URI records.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	ndef "github.com/hsanjuan/go-ndef"
	"gopkg.in/yaml.v3"

	ntagi2c "github.com/ZaparooProject/go-ntagi2c"
	"github.com/ZaparooProject/go-ntagi2c/detection"
	_ "github.com/ZaparooProject/go-ntagi2c/detection/i2c"
	"github.com/ZaparooProject/go-ntagi2c/transport/i2c"
)

type config struct {
	device    string
	address   uint
	writeText string
	writeURI  string
	dump      bool
	info      bool
	read      bool
	debug     bool
}

// jobFile mirrors the -config YAML layout
type jobFile struct {
	Device  string `yaml:"device"`
	Address uint16 `yaml:"address"`
	Text    string `yaml:"text"`
	URI     string `yaml:"uri"`
}

// Package-level flag variables
var (
	flagDevice     string
	flagAddress    uint
	flagConfigPath string
	flagWriteText  string
	flagWriteURI   string
	flagDump       bool
	flagInfo       bool
	flagRead       bool
	flagDebug      bool
)

func init() {
	flag.StringVar(&flagDevice, "device", "", "I2C bus (e.g. /dev/i2c-1, auto-detect if empty)")
	flag.UintVar(&flagAddress, "address", i2c.DefaultAddress, "I2C address of the chip")
	flag.StringVar(&flagConfigPath, "config", "", "YAML job file (device/address/text/uri)")
	flag.StringVar(&flagWriteText, "write", "", "Write an NDEF text record with the given text")
	flag.StringVar(&flagWriteURI, "uri", "", "Write an NDEF URI record with the given URI")
	flag.BoolVar(&flagDump, "dump", false, "Hex dump the user data region")
	flag.BoolVar(&flagInfo, "info", false, "Print serial number and capability container")
	flag.BoolVar(&flagRead, "read", true, "Read and print the NDEF message")
	flag.BoolVar(&flagDebug, "debug", false, "Enable debug output")
}

func parseConfig() (*config, error) {
	cfg := &config{
		device:    flagDevice,
		address:   flagAddress,
		writeText: flagWriteText,
		writeURI:  flagWriteURI,
		dump:      flagDump,
		info:      flagInfo,
		read:      flagRead,
		debug:     flagDebug,
	}

	if flagConfigPath != "" {
		if err := applyJobFile(cfg, flagConfigPath); err != nil {
			return nil, err
		}
	}

	if cfg.debug {
		ntagi2c.SetDebugEnabled(true)
	}
	return cfg, nil
}

// applyJobFile overlays settings from a YAML job file; explicit flags
// take precedence over file values.
func applyJobFile(cfg *config, path string) error {
	raw, err := os.ReadFile(path) //nolint:gosec // user-supplied config path
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var job jobFile
	if err := yaml.Unmarshal(raw, &job); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.device == "" {
		cfg.device = job.Device
	}
	if cfg.address == i2c.DefaultAddress && job.Address != 0 {
		cfg.address = uint(job.Address)
	}
	if cfg.writeText == "" {
		cfg.writeText = job.Text
	}
	if cfg.writeURI == "" {
		cfg.writeURI = job.URI
	}
	return nil
}

// newTransport creates an I2C transport, auto-detecting the bus when no
// device path was given.
func newTransport(cfg *config) (ntagi2c.Transport, error) {
	if cfg.device == "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		opts := detection.DefaultOptions()
		devices, err := detection.DetectAll(ctx, &opts)
		if err != nil {
			return nil, fmt.Errorf("auto-detection failed: %w", err)
		}
		cfg.device = devices[0].Path
		fmt.Printf("Using detected chip: %s\n", devices[0])
	}

	transport, err := i2c.NewWithAddress(cfg.device, uint16(cfg.address))
	if err != nil {
		return nil, fmt.Errorf("failed to create I2C transport: %w", err)
	}
	return transport, nil
}

func printInfo(device *ntagi2c.Device) error {
	serial, err := device.Serial()
	if err != nil {
		return fmt.Errorf("failed to read serial: %w", err)
	}
	cc, err := device.CapabilityContainer()
	if err != nil {
		return fmt.Errorf("failed to read capability container: %w", err)
	}
	fmt.Printf("Serial:               %012X\n", serial)
	fmt.Printf("Capability container: %08X\n", cc)
	return nil
}

func dumpUserData(device *ntagi2c.Device) error {
	data, err := device.ReadUser(0, ntagi2c.UserDataLen)
	if err != nil {
		return fmt.Errorf("failed to read user data: %w", err)
	}
	fmt.Print(hex.Dump(data))
	return nil
}

func readNDEF(device *ntagi2c.Device) error {
	payload, err := device.ReadNDEF()
	if err != nil {
		if errors.Is(err, ntagi2c.ErrNDEFNotFound) {
			fmt.Println("No NDEF message on chip")
			return nil
		}
		return fmt.Errorf("failed to read NDEF: %w", err)
	}

	msg := &ndef.Message{}
	if _, err := msg.Unmarshal(payload); err != nil {
		fmt.Printf("NDEF payload (%d bytes, unparseable): %x\n", len(payload), payload)
		return nil //nolint:nilerr // raw payload already shown
	}
	fmt.Printf("NDEF message: %s\n", msg)
	return nil
}

func writeNDEF(device *ntagi2c.Device, cfg *config) error {
	var msg *ndef.Message
	switch {
	case cfg.writeText != "":
		msg = ndef.NewTextMessage(cfg.writeText, "en")
	case cfg.writeURI != "":
		msg = ndef.NewURIMessage(cfg.writeURI)
	default:
		return nil
	}

	payload, err := msg.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal NDEF message: %w", err)
	}
	if err := device.WriteNDEF(payload); err != nil {
		return fmt.Errorf("failed to write NDEF: %w", err)
	}
	fmt.Printf("Wrote %d byte NDEF message\n", len(payload))
	return nil
}

func run() error {
	cfg, err := parseConfig()
	if err != nil {
		return err
	}

	transport, err := newTransport(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = transport.Close() }()

	device, err := ntagi2c.New(transport,
		ntagi2c.WithRetryConfig(ntagi2c.DefaultRetryConfig()))
	if err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}

	if cfg.info {
		if err := printInfo(device); err != nil {
			return err
		}
	}
	if cfg.dump {
		return dumpUserData(device)
	}
	if cfg.writeText != "" || cfg.writeURI != "" {
		return writeNDEF(device, cfg)
	}
	if cfg.read {
		return readNDEF(device)
	}
	return nil
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
