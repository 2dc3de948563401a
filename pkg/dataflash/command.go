package dataflash

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/at45/pkg/spi"
	"periph.io/x/conn/v3/physic"
)

// AT45 opcodes.
const (
	OpReadJEDECID byte = 0x9F
	OpReadStatus  byte = 0xD7
	OpPageSize256 byte = 0xA6
	OpPageSize264 byte = 0xA7
)

// pageSizeUnlock prefixes the page size configuration opcode.
var pageSizeUnlock = [...]byte{0x3D, 0x2A, 0x80}

// BusSpeed is the clock used for every command.
const BusSpeed = 40 * physic.MegaHertz

// Command is an outbound opcode sequence and the number of response bytes
// expected after it.
type Command struct {
	Name        string
	Opcode      []byte
	ResponseLen int
}

var (
	CmdReadJEDECID = Command{Name: "read JEDEC ID", Opcode: []byte{OpReadJEDECID}, ResponseLen: 4}
	CmdReadStatus  = Command{Name: "read status", Opcode: []byte{OpReadStatus}, ResponseLen: 2}
)

// SetPageSizeCommand builds the four byte page size configuration command.
func SetPageSizeCommand(ps PageSize) Command {
	op := make([]byte, 0, len(pageSizeUnlock)+1)
	op = append(op, pageSizeUnlock[:]...)
	op = append(op, ps.Opcode())
	return Command{Name: "set page size", Opcode: op}
}

// PageSize selects the DataFlash page framing.
type PageSize int

const (
	PageSize256 PageSize = 256 // "power of 2" binary pages
	PageSize264 PageSize = 264 // standard DataFlash pages
)

// ParsePageSize maps a command line value to a page size. Only the literal
// "256" selects binary pages.
func ParsePageSize(s string) PageSize {
	if s == "256" {
		return PageSize256
	}
	return PageSize264
}

// Opcode returns the configuration byte selecting ps.
func (ps PageSize) Opcode() byte {
	if ps == PageSize256 {
		return OpPageSize256
	}
	return OpPageSize264
}

func (ps PageSize) String() string {
	if ps == PageSize256 {
		return "256"
	}
	return "264"
}

// Shape is the way a command is laid out on the bus.
type Shape uint8

const (
	// ShapeDuplex sends the command and clocks the response in one full
	// duplex transfer. The bytes received during the command are dummies.
	ShapeDuplex Shape = iota
	// ShapeSplit sends the command in a write-only transfer followed by a
	// read-only transfer for the response.
	ShapeSplit
)

func (s Shape) String() string {
	switch s {
	case ShapeDuplex:
		return "duplex"
	case ShapeSplit:
		return "split"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}

// ParseShape accepts "duplex" or "split".
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(s) {
	case "duplex", "full-duplex":
		return ShapeDuplex, nil
	case "split", "half-duplex":
		return ShapeSplit, nil
	default:
		return 0, fmt.Errorf("dataflash: unknown transfer shape %q (want duplex or split)", s)
	}
}

// Transfers lays cmd out on the bus. resp aliases the part of the receive
// buffers that holds the response once the transfers have been issued.
func (s Shape) Transfers(cmd Command) (transfers []spi.Transfer, resp []byte) {
	speed := uint32(BusSpeed / physic.Hertz)
	seg := func(tx, rx []byte) spi.Transfer {
		return spi.Transfer{Tx: tx, Rx: rx, SpeedHz: speed, BitsPerWord: 8}
	}

	if s == ShapeSplit || cmd.ResponseLen == 0 {
		tx := append([]byte(nil), cmd.Opcode...)
		transfers = append(transfers, seg(tx, nil))
		if cmd.ResponseLen > 0 {
			resp = make([]byte, cmd.ResponseLen)
			transfers = append(transfers, seg(nil, resp))
		}
		return transfers, resp
	}

	n := len(cmd.Opcode) + cmd.ResponseLen
	tx := make([]byte, n)
	copy(tx, cmd.Opcode)
	rx := make([]byte, n)
	return []spi.Transfer{seg(tx, rx)}, rx[len(cmd.Opcode):]
}
