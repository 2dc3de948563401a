//go:build linux

package spi

import (
	"fmt"
	"os"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Various ioctl numbers.
const (
	iocRdMode32     = 0x80046b05
	iocRdMaxSpeedHz = 0x80046b04
)

// Mode is the SPI_IOC_RD_MODE32 bit set.
type Mode uint32

const (
	CPHA Mode = 1 << iota
	CPOL
	CSHigh
	LSBFirst
	ThreeWire
	Loop
	NoCS
	Ready
)

var modeNames = [...]string{"CPHA", "CPOL", "CS_HIGH", "LSB_FIRST", "3WIRE", "LOOP", "NO_CS", "READY"}

// String lists the set mode bits the way spidev.h names them, e.g.
// "CPHA|CPOL". Mode 0 is "0".
func (m Mode) String() string {
	var names []string
	for i, name := range modeNames {
		if m&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if rest := m &^ (1<<len(modeNames) - 1); rest != 0 {
		names = append(names, fmt.Sprintf("0x%X", uint32(rest)))
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}

// iocTransfer mirrors struct spi_ioc_transfer. Multiple such transfers may be
// chained together in a single ioctl call.
type iocTransfer struct {
	TxBuf          uint64
	RxBuf          uint64
	Length         uint32
	SpeedHz        uint32
	DelayUsecs     uint16
	BitsPerWord    uint8
	CSChange       uint8
	TxNBits        uint8
	RxNBits        uint8
	WordDelayUsecs uint8
	Pad            uint8
}

// iocMessage is the SPI_IOC_MESSAGE(n) ioctl number.
func iocMessage(n int) uint32 {
	const (
		sizeBits  = 14
		sizeShift = 16
	)
	size := uint32(n) * uint32(unsafe.Sizeof(iocTransfer{}))
	if n < 0 || size >= (1<<sizeBits) {
		return iocMessage(0)
	}
	return 0x40006b00 | (size << sizeShift)
}

// SPI is an open spidev node.
type SPI struct {
	f    *os.File
	path string
}

var _ Conn = (*SPI)(nil)

// Open opens a spidev device such as "/dev/spidev0.0" for reading and
// writing. Remember to call Close().
func Open(dev string) (*SPI, error) {
	f, err := os.OpenFile(dev, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &SPI{f: f, path: dev}, nil
}

// Path returns the device node the SPI was opened from.
func (s *SPI) Path() string {
	return s.path
}

// Close closes the device node.
func (s *SPI) Close() error {
	return s.f.Close()
}

// Transfer issues all transfers in one SPI_IOC_MESSAGE ioctl, keeping them
// within a single chip-select assertion unless CSChange says otherwise.
func (s *SPI) Transfer(transfers []Transfer) error {
	if err := ValidateTransfers(transfers); err != nil {
		return err
	}

	// Copy data into unmanaged buffer because the garbage collector may move
	// pointers at any time.
	bufSize := 0
	for _, t := range transfers {
		bufSize += len(t.Tx) + len(t.Rx)
	}
	buf, err := unix.Mmap(-1, 0, bufSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return err
	}
	defer unix.Munmap(buf)

	it := make([]iocTransfer, 0, len(transfers))
	offset := 0
	for _, t := range transfers {
		var tx iocTransfer
		tx.Length = uint32(t.Len())
		tx.SpeedHz = t.SpeedHz
		tx.DelayUsecs = t.DelayUsecs
		tx.BitsPerWord = t.BitsPerWord
		tx.TxNBits = t.TxNBits
		tx.RxNBits = t.RxNBits
		tx.WordDelayUsecs = t.WordDelayUsecs
		if t.CSChange {
			tx.CSChange = 1
		}
		if len(t.Tx) != 0 {
			copy(buf[offset:], t.Tx)
			tx.TxBuf = uint64(uintptr(unsafe.Pointer(&buf[offset])))
		}
		if len(t.Rx) != 0 {
			tx.RxBuf = uint64(uintptr(unsafe.Pointer(&buf[offset+len(t.Tx)])))
		}
		it = append(it, tx)
		offset += len(t.Tx) + len(t.Rx)
	}

	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, s.f.Fd(),
		uintptr(iocMessage(len(transfers))),
		uintptr(unsafe.Pointer(&it[0]))); errno != 0 {
		return fmt.Errorf("SPI_IOC_MESSAGE(%d): %w", len(transfers), errno)
	}

	// Copy out rx.
	offset = 0
	for _, t := range transfers {
		copy(t.Rx, buf[offset+len(t.Tx):])
		offset += len(t.Tx) + len(t.Rx)
	}
	return nil
}

// Mode reads the current bus mode.
func (s *SPI) Mode() (Mode, error) {
	var m Mode
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, s.f.Fd(), iocRdMode32, uintptr(unsafe.Pointer(&m))); errno != 0 {
		return 0, errno
	}
	return m, nil
}

// MaxSpeedHz reads the default transfer speed of the node.
func (s *SPI) MaxSpeedHz() (uint32, error) {
	var hz uint32
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, s.f.Fd(), iocRdMaxSpeedHz, uintptr(unsafe.Pointer(&hz))); errno != 0 {
		return 0, errno
	}
	return hz, nil
}
