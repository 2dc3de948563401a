package dataflash

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/OpenTraceLab/at45/pkg/spi"
	"github.com/rs/zerolog"
)

// SettleDelay is how long the chip needs after a page size change before its
// status register reflects the new configuration.
const SettleDelay = 100 * time.Millisecond

// Device issues AT45 commands over an spi.Conn. It is not safe for
// concurrent use.
type Device struct {
	conn  spi.Conn
	shape Shape
	sleep func(time.Duration)
	log   zerolog.Logger
}

// Option configures a Device.
type Option func(*Device)

// WithShape selects how commands are laid out on the bus.
func WithShape(s Shape) Option {
	return func(d *Device) {
		d.shape = s
	}
}

// WithSleeper replaces time.Sleep for the settling delay. Tests use it to
// observe ordering without waiting.
func WithSleeper(sleep func(time.Duration)) Option {
	return func(d *Device) {
		d.sleep = sleep
	}
}

// WithLogger sets the logger used for per-exchange debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Device) {
		d.log = l
	}
}

// New wraps conn. The default shape is ShapeDuplex.
func New(conn spi.Conn, opts ...Option) *Device {
	d := &Device{
		conn:  conn,
		shape: ShapeDuplex,
		sleep: time.Sleep,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Shape reports the transfer shape in use.
func (d *Device) Shape() Shape {
	return d.shape
}

// Exchange sends cmd and returns its response with dummy bytes removed.
func (d *Device) Exchange(cmd Command) ([]byte, error) {
	transfers, resp := d.shape.Transfers(cmd)
	d.log.Debug().
		Str("cmd", cmd.Name).
		Str("shape", d.shape.String()).
		Int("segments", len(transfers)).
		Hex("tx", cmd.Opcode).
		Msg("spi exchange")

	if err := d.conn.Transfer(transfers); err != nil {
		return nil, err
	}
	if cmd.ResponseLen > 0 {
		d.log.Debug().Str("cmd", cmd.Name).Hex("rx", resp).Msg("spi response")
	}
	return resp, nil
}

// ReadJEDECID reads the manufacturer and device ID. On failure it returns
// UnknownJEDECID along with the error.
func (d *Device) ReadJEDECID() (JEDECID, error) {
	resp, err := d.Exchange(CmdReadJEDECID)
	if err != nil {
		return UnknownJEDECID, fmt.Errorf("%s: %w", CmdReadJEDECID.Name, err)
	}
	return JEDECID(binary.LittleEndian.Uint32(resp)), nil
}

// ReadStatus reads the 16 bit status register. The first byte received holds
// bits 0-7.
func (d *Device) ReadStatus() (Status, error) {
	resp, err := d.Exchange(CmdReadStatus)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", CmdReadStatus.Name, err)
	}
	return Status(binary.LittleEndian.Uint16(resp)), nil
}

// SetPageSize reprograms the page framing and then waits SettleDelay.
// Each call consumes one of the chip's limited configuration cycles.
func (d *Device) SetPageSize(ps PageSize) error {
	cmd := SetPageSizeCommand(ps)
	if _, err := d.Exchange(cmd); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	d.log.Debug().Dur("delay", SettleDelay).Msg("waiting for page size change to settle")
	d.sleep(SettleDelay)
	return nil
}
