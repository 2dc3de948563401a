// Package spi exposes chained SPI transfers over the Linux spidev character
// device.
//
// See Linux "include/uapi/linux/spi/spidev.h" and
// "Documentation/spi/spidev.rst".
package spi

import (
	"errors"
	"fmt"
)

// Transfer describes one segment of a chained SPI message. Tx and Rx may
// both be set (full duplex, equal lengths) or only one of them (half duplex).
type Transfer struct {
	Tx             []byte
	Rx             []byte
	SpeedHz        uint32
	DelayUsecs     uint16
	BitsPerWord    uint8
	CSChange       bool
	TxNBits        uint8
	RxNBits        uint8
	WordDelayUsecs uint8
}

// Len returns the number of bus clocks, in words, the transfer occupies.
func (t Transfer) Len() int {
	if len(t.Tx) != 0 {
		return len(t.Tx)
	}
	return len(t.Rx)
}

// Conn abstracts a device that can issue chained transfers atomically.
// Receive buffers are filled in place.
type Conn interface {
	Transfer(transfers []Transfer) error
	Close() error
}

var (
	// ErrNoTransfers is returned when an empty message is submitted.
	ErrNoTransfers = errors.New("spi: no transfers")
	// ErrNotSupported is returned on platforms without spidev.
	ErrNotSupported = errors.New("spi: spidev not supported on this platform")
)

// ValidateTransfers checks that every segment carries a buffer and that
// full-duplex segments use equally sized buffers.
func ValidateTransfers(transfers []Transfer) error {
	if len(transfers) == 0 {
		return ErrNoTransfers
	}
	for i, t := range transfers {
		if len(t.Tx) == 0 && len(t.Rx) == 0 {
			return fmt.Errorf("spi: transfer %d has no buffers", i)
		}
		if len(t.Tx) != 0 && len(t.Rx) != 0 && len(t.Tx) != len(t.Rx) {
			return fmt.Errorf("spi: transfer %d rx/tx lengths must equal, or one length is zero", i)
		}
	}
	return nil
}
