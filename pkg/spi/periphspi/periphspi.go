// Package periphspi adapts a periph.io SPI port to the spi.Conn interface so
// the tool can run on any bus periph.io knows how to drive.
package periphspi

import (
	"fmt"
	"sync"

	"github.com/OpenTraceLab/at45/pkg/spi"
	"periph.io/x/conn/v3/physic"
	pspi "periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

var (
	initOnce sync.Once
	initErr  error
)

// Conn is an spi.Conn backed by periph.io.
type Conn struct {
	port pspi.PortCloser
	conn pspi.Conn
	freq physic.Frequency
}

var _ spi.Conn = (*Conn)(nil)

// Open initializes the periph.io host drivers once, opens the named port
// ("/dev/spidev0.0", "SPI0.0" or "" for the first one) and connects in mode 0
// with 8 bit words at freq.
func Open(name string, freq physic.Frequency) (*Conn, error) {
	initOnce.Do(func() {
		_, initErr = host.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("periph host init: %w", initErr)
	}

	port, err := spireg.Open(name)
	if err != nil {
		return nil, err
	}
	c, err := port.Connect(freq, pspi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("connect %s at %s: %w", name, freq, err)
	}
	return &Conn{port: port, conn: c, freq: freq}, nil
}

// Frequency returns the clock the port was connected at.
func (c *Conn) Frequency() physic.Frequency {
	return c.freq
}

// Transfer maps each spi.Transfer onto a periph.io packet. Chip select stays
// asserted between packets of one call.
func (c *Conn) Transfer(transfers []spi.Transfer) error {
	if err := spi.ValidateTransfers(transfers); err != nil {
		return err
	}
	return c.conn.TxPackets(Packets(transfers))
}

// Close releases the port.
func (c *Conn) Close() error {
	return c.port.Close()
}

// Packets converts transfers into periph.io packets. Rx buffers are shared,
// so data received by the driver lands in the caller's slices.
func Packets(transfers []spi.Transfer) []pspi.Packet {
	packets := make([]pspi.Packet, len(transfers))
	for i, t := range transfers {
		packets[i] = pspi.Packet{
			W:           t.Tx,
			R:           t.Rx,
			BitsPerWord: t.BitsPerWord,
			KeepCS:      i < len(transfers)-1 && !t.CSChange,
		}
	}
	return packets
}
