//go:build !linux

package spi

import "fmt"

// Mode is the SPI_IOC_RD_MODE32 bit set.
type Mode uint32

func (m Mode) String() string { return fmt.Sprintf("0x%X", uint32(m)) }

// SPI is unavailable outside Linux; Open always fails.
type SPI struct{}

var _ Conn = (*SPI)(nil)

func Open(dev string) (*SPI, error) {
	return nil, ErrNotSupported
}

func (s *SPI) Path() string { return "" }
func (s *SPI) Close() error { return nil }
func (s *SPI) Transfer(_ []Transfer) error { return ErrNotSupported }
func (s *SPI) Mode() (Mode, error) { return 0, ErrNotSupported }
func (s *SPI) MaxSpeedHz() (uint32, error) { return 0, ErrNotSupported }
