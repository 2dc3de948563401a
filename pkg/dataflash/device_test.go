package dataflash

import (
	"errors"
	"testing"
	"time"

	"github.com/OpenTraceLab/at45/pkg/spi"
	"github.com/google/go-cmp/cmp"
)

// scriptConn fills receive buffers with canned MISO bytes.
type scriptConn struct {
	miso []byte
	err  error
	sent [][]spi.Transfer
}

func (c *scriptConn) Transfer(transfers []spi.Transfer) error {
	c.sent = append(c.sent, transfers)
	if c.err != nil {
		return c.err
	}
	pos := 0
	for _, t := range transfers {
		for i := range t.Rx {
			if pos+i < len(c.miso) {
				t.Rx[i] = c.miso[pos+i]
			}
		}
		pos += t.Len()
	}
	return nil
}

func (c *scriptConn) Close() error { return nil }

func TestReadJEDECIDDuplex(t *testing.T) {
	conn := &scriptConn{miso: []byte{0xFF, 0x1F, 0x24, 0x00, 0x01}}
	dev := New(conn)

	id, err := dev.ReadJEDECID()
	if err != nil {
		t.Fatalf("ReadJEDECID returned error: %v", err)
	}
	if id != 0x0100241F {
		t.Fatalf("id = %s, want 0x0100241F", id)
	}

	chip, err := NewTable().Identify(id, nil)
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if chip.Name != "Adesto AT45DB041E" {
		t.Fatalf("chip = %q, want Adesto AT45DB041E", chip.Name)
	}

	if len(conn.sent) != 1 || len(conn.sent[0]) != 1 {
		t.Fatalf("expected one single-segment message, got %d messages", len(conn.sent))
	}
	if diff := cmp.Diff([]byte{0x9F, 0, 0, 0, 0}, conn.sent[0][0].Tx); diff != "" {
		t.Fatalf("tx mismatch (-want +got):\n%s", diff)
	}
}

func TestReadJEDECIDSplit(t *testing.T) {
	// In the split shape the response segment starts after the opcode, so
	// the canned stream carries the dummy in the opcode slot.
	conn := &scriptConn{miso: []byte{0x00, 0x1F, 0x24, 0x00, 0x01}}
	dev := New(conn, WithShape(ShapeSplit))

	id, err := dev.ReadJEDECID()
	if err != nil {
		t.Fatalf("ReadJEDECID returned error: %v", err)
	}
	if id != 0x0100241F {
		t.Fatalf("id = %s, want 0x0100241F", id)
	}
	if got := len(conn.sent[0]); got != 2 {
		t.Fatalf("split shape used %d segments, want 2", got)
	}
}

func TestReadJEDECIDUnknownChip(t *testing.T) {
	conn := &scriptConn{miso: []byte{0xFF, 0xEF, 0x40, 0x18, 0x00}}
	id, err := New(conn).ReadJEDECID()
	if err != nil {
		t.Fatalf("ReadJEDECID returned error: %v", err)
	}
	_, err = NewTable().Identify(id, nil)
	var unsupported *UnsupportedChipError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Identify error = %v, want *UnsupportedChipError", err)
	}
	if unsupported.ID != 0x001840EF {
		t.Fatalf("error ID = %s, want 0x001840EF", unsupported.ID)
	}
	if want := "no supported chips found (id = 0x001840EF)"; err.Error() != want {
		t.Fatalf("error = %q, want %q", err.Error(), want)
	}
}

func TestReadJEDECIDTransportFailure(t *testing.T) {
	ioErr := errors.New("ioctl: input/output error")
	id, err := New(&scriptConn{err: ioErr}).ReadJEDECID()
	if !errors.Is(err, ioErr) {
		t.Fatalf("error = %v, want wrapped transport error", err)
	}
	if id != UnknownJEDECID {
		t.Fatalf("id = %s, want UnknownJEDECID", id)
	}
}

func TestReadStatus(t *testing.T) {
	for _, shape := range []Shape{ShapeDuplex, ShapeSplit} {
		conn := &scriptConn{miso: []byte{0xFF, 0x9D, 0x80}}
		st, err := New(conn, WithShape(shape)).ReadStatus()
		if err != nil {
			t.Fatalf("%s: ReadStatus returned error: %v", shape, err)
		}
		if st != 0x809D {
			t.Fatalf("%s: status = %04X, want 809D", shape, uint16(st))
		}
	}

	ioErr := errors.New("broken pipe")
	if _, err := New(&scriptConn{err: ioErr}).ReadStatus(); !errors.Is(err, ioErr) {
		t.Fatalf("ReadStatus error = %v, want wrapped transport error", err)
	}
}

func TestSetPageSizeSleepsAfterWrite(t *testing.T) {
	conn := &scriptConn{}
	var order []string
	dev := New(conn, WithSleeper(func(d time.Duration) {
		if d != SettleDelay {
			t.Errorf("sleep %v, want %v", d, SettleDelay)
		}
		order = append(order, "sleep")
	}))

	if err := dev.SetPageSize(PageSize256); err != nil {
		t.Fatalf("SetPageSize returned error: %v", err)
	}
	if len(conn.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(conn.sent))
	}
	msg := conn.sent[0]
	if len(msg) != 1 || msg[0].Rx != nil {
		t.Fatalf("page size must be a single write-only transfer, got %+v", msg)
	}
	if diff := cmp.Diff([]byte{0x3D, 0x2A, 0x80, 0xA6}, msg[0].Tx); diff != "" {
		t.Fatalf("tx mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"sleep"}, order); diff != "" {
		t.Fatalf("sleep calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSetPageSizeFailureSkipsDelay(t *testing.T) {
	ioErr := errors.New("timeout")
	slept := false
	dev := New(&scriptConn{err: ioErr}, WithSleeper(func(time.Duration) { slept = true }))
	if err := dev.SetPageSize(PageSize264); !errors.Is(err, ioErr) {
		t.Fatalf("SetPageSize error = %v, want wrapped transport error", err)
	}
	if slept {
		t.Fatalf("settling delay applied after a failed write")
	}
}

func TestExchangeShapeDefault(t *testing.T) {
	if got := New(&scriptConn{}).Shape(); got != ShapeDuplex {
		t.Fatalf("default shape = %s, want duplex", got)
	}
}
