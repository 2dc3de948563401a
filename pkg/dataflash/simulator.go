package dataflash

import (
	"fmt"
	"time"

	"github.com/OpenTraceLab/at45/pkg/spi"
)

// DefaultSimStatus is an idle AT45DB041E in standard page mode: ready, 4-Mbit
// density code, 264 byte pages.
const DefaultSimStatus Status = 0x809C

// EventKind tells transfers and settling delays apart in the simulator log.
type EventKind uint8

const (
	EventTransfer EventKind = iota
	EventSleep
)

// Event is one entry of the simulator log.
type Event struct {
	Kind     EventKind
	Opcode   byte
	MOSI     []byte // every byte the host clocked out, across segments
	Segments int
	Delay    time.Duration
}

// TransferHook lets tests fail or inspect a message before the chip answers.
type TransferHook func(opcode byte, transfers []spi.Transfer) error

// SimChip emulates an AT45 DataFlash behind an spi.Conn. A page size change
// only becomes visible in the status register once Sleep has been called for
// at least SettleDelay, like the real part finishing its internal cycle.
type SimChip struct {
	ID     JEDECID
	Status Status

	OnTransfer TransferHook

	pending   *PageSize
	events    []Event
	pageCount int
	closed    bool
}

var _ spi.Conn = (*SimChip)(nil)

// NewSimChip returns an idle chip answering with id.
func NewSimChip(id JEDECID) *SimChip {
	return &SimChip{ID: id, Status: DefaultSimStatus}
}

// Events returns a copy of everything that happened on the simulated bus.
func (s *SimChip) Events() []Event {
	out := make([]Event, len(s.events))
	for i, e := range s.events {
		e.MOSI = append([]byte(nil), e.MOSI...)
		out[i] = e
	}
	return out
}

// PageSizeWrites reports how many page size commands reached the chip.
func (s *SimChip) PageSizeWrites() int {
	return s.pageCount
}

// Closed reports whether Close was called.
func (s *SimChip) Closed() bool {
	return s.closed
}

// Sleep records a delay and completes a pending configuration change when it
// is long enough. It does not block.
func (s *SimChip) Sleep(d time.Duration) {
	s.events = append(s.events, Event{Kind: EventSleep, Delay: d})
	if s.pending != nil && d >= SettleDelay {
		if *s.pending == PageSize256 {
			s.Status |= 1 << StatusPageSize
		} else {
			s.Status &^= 1 << StatusPageSize
		}
		s.pending = nil
	}
}

func (s *SimChip) Close() error {
	s.closed = true
	return nil
}

// Transfer treats the chained transfers as one chip-select window: MOSI bytes
// of all segments form the command, MISO bytes come from the response that
// starts right after the command bytes.
func (s *SimChip) Transfer(transfers []spi.Transfer) error {
	if s.closed {
		return fmt.Errorf("sim: transfer on closed device")
	}
	if err := spi.ValidateTransfers(transfers); err != nil {
		return err
	}

	var mosi []byte
	for _, t := range transfers {
		if len(t.Tx) != 0 {
			mosi = append(mosi, t.Tx...)
		} else {
			mosi = append(mosi, make([]byte, len(t.Rx))...)
		}
	}
	opcode := mosi[0]

	if s.OnTransfer != nil {
		if err := s.OnTransfer(opcode, transfers); err != nil {
			return err
		}
	}
	s.events = append(s.events, Event{
		Kind:     EventTransfer,
		Opcode:   opcode,
		MOSI:     mosi,
		Segments: len(transfers),
	})

	cmdLen, resp := s.respond(mosi)
	pos := 0
	for _, t := range transfers {
		for i := range t.Rx {
			t.Rx[i] = misoAt(pos+i, cmdLen, resp)
		}
		pos += t.Len()
	}
	return nil
}

// respond decodes the command and returns its length and the bytes the chip
// drives afterwards.
func (s *SimChip) respond(mosi []byte) (int, []byte) {
	switch mosi[0] {
	case OpReadJEDECID:
		id := uint32(s.ID)
		return 1, []byte{byte(id), byte(id >> 8), byte(id >> 16), byte(id >> 24)}
	case OpReadStatus:
		return 1, []byte{byte(s.Status), byte(s.Status >> 8)}
	case pageSizeUnlock[0]:
		if len(mosi) >= 4 && mosi[1] == pageSizeUnlock[1] && mosi[2] == pageSizeUnlock[2] {
			switch mosi[3] {
			case OpPageSize256, OpPageSize264:
				ps := PageSize264
				if mosi[3] == OpPageSize256 {
					ps = PageSize256
				}
				s.pending = &ps
				s.pageCount++
			}
		}
		return len(mosi), nil
	default:
		return len(mosi), nil
	}
}

func misoAt(pos, cmdLen int, resp []byte) byte {
	if pos < cmdLen || len(resp) == 0 {
		return 0xFF
	}
	// The status register streams continuously while CS stays low.
	return resp[(pos-cmdLen)%len(resp)]
}
