// Package probe finds host interfaces an AT45 part can be reached through:
// spidev nodes exposed by the kernel and USB to SPI bridges.
package probe

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/google/gousb"
)

// InterfaceKind categorizes host interfaces.
type InterfaceKind string

const (
	InterfaceKindSpidev InterfaceKind = "spidev"
	InterfaceKindBridge InterfaceKind = "usb-spi"
	InterfaceKindSim    InterfaceKind = "simulator"
)

// InterfaceInfo describes a detected interface.
type InterfaceInfo struct {
	Kind        InterfaceKind
	Description string
	VendorID    uint16
	ProductID   uint16
	Path        string
}

// Label returns a user-friendly description for the interface.
func (i InterfaceInfo) Label() string {
	if i.Description != "" {
		return i.Description
	}
	if i.Path != "" {
		return i.Path
	}
	return fmt.Sprintf("%s (%04X:%04X)", string(i.Kind), i.VendorID, i.ProductID)
}

// SpidevGlob matches the kernel's spidev device nodes.
var SpidevGlob = "/dev/spidev*"

// Spidev lists spidev nodes in lexical order.
func Spidev() ([]InterfaceInfo, error) {
	paths, err := filepath.Glob(SpidevGlob)
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	out := make([]InterfaceInfo, 0, len(paths))
	for _, p := range paths {
		out = append(out, InterfaceInfo{Kind: InterfaceKindSpidev, Path: p})
	}
	return out, nil
}

// DiscoverInterfaces returns spidev nodes, then USB bridges matching known
// VID/PID pairs, then the simulator entry so there is always something to
// pick. USB access errors are tolerated; the spidev list is still returned.
func DiscoverInterfaces(ctx context.Context) ([]InterfaceInfo, error) {
	results, err := Spidev()
	if err != nil {
		return nil, err
	}

	usb := gousb.NewContext()
	defer usb.Close()

	_, err = usb.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		if info, ok := ClassifyUSB(uint16(desc.Vendor), uint16(desc.Product)); ok {
			results = append(results, info)
		}
		return false
	})
	if err != nil && !errors.Is(err, gousb.ErrorAccess) {
		return results, err
	}

	results = append(results, InterfaceInfo{
		Kind:        InterfaceKindSim,
		Description: "Simulator (no hardware)",
	})
	return results, ctx.Err()
}

// ClassifyUSB matches a VID/PID against known USB to SPI bridges.
func ClassifyUSB(vid, pid uint16) (InterfaceInfo, bool) {
	for _, known := range knownBridges {
		if vid == known.VendorID && pid == known.ProductID {
			return InterfaceInfo{
				Kind:        InterfaceKindBridge,
				Description: known.Description,
				VendorID:    known.VendorID,
				ProductID:   known.ProductID,
			}, true
		}
	}
	return InterfaceInfo{}, false
}

type knownUSBDevice struct {
	VendorID    uint16
	ProductID   uint16
	Description string
}

var knownBridges = []knownUSBDevice{
	{VendorID: 0x1a86, ProductID: 0x5512, Description: "WCH CH341A USB-SPI"},
	{VendorID: 0x1a86, ProductID: 0x55db, Description: "WCH CH347 USB-SPI"},
	{VendorID: 0x0403, ProductID: 0x6010, Description: "FTDI FT2232H MPSSE"},
	{VendorID: 0x0403, ProductID: 0x6014, Description: "FTDI FT232H MPSSE"},
	{VendorID: 0x04d8, ProductID: 0x00dd, Description: "Microchip MCP2221A"},
	{VendorID: 0x2e8a, ProductID: 0x000c, Description: "Raspberry Pi Debug Probe"},
}
