package periphspi

import (
	"testing"

	"github.com/OpenTraceLab/at45/pkg/spi"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/physic"
	pspi "periph.io/x/conn/v3/spi"
)

func TestPackets(t *testing.T) {
	rx := make([]byte, 4)
	got := Packets([]spi.Transfer{
		{Tx: []byte{0x9F}, BitsPerWord: 8},
		{Rx: rx, BitsPerWord: 8},
	})
	want := []pspi.Packet{
		{W: []byte{0x9F}, BitsPerWord: 8, KeepCS: true},
		{R: rx, BitsPerWord: 8},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Packets mismatch (-want +got):\n%s", diff)
	}

	// Rx buffers must alias so received data reaches the caller.
	got[1].R[0] = 0x1F
	if rx[0] != 0x1F {
		t.Fatalf("rx buffer not shared with packet")
	}
}

func TestPacketsCSChange(t *testing.T) {
	got := Packets([]spi.Transfer{
		{Tx: []byte{0x01}, CSChange: true},
		{Tx: []byte{0x02}},
	})
	if got[0].KeepCS {
		t.Fatalf("KeepCS set on a transfer requesting a CS change")
	}
}

func TestTransferRejectsEmpty(t *testing.T) {
	c := &Conn{}
	if err := c.Transfer(nil); err != spi.ErrNoTransfers {
		t.Fatalf("Transfer(nil) = %v, want ErrNoTransfers", err)
	}
}

func TestFrequency(t *testing.T) {
	c := &Conn{freq: 40 * physic.MegaHertz}
	if got := c.Frequency(); got != 40*physic.MegaHertz {
		t.Fatalf("Frequency() = %s, want 40MHz", got)
	}
}
