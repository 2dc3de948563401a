package dataflash

// Status is the AT45 16 bit status register. Bits 0-7 are the first byte
// clocked out by the chip.
type Status uint16

// Status register bits with independent meaning. Bit 15 repeats
// StatusReady and bits 2-5 hold the density code.
const (
	StatusPageSize     = 0  // 1: binary (256 byte) pages
	StatusProtect      = 1  // sector protection enabled
	StatusCompare      = 6  // 1: page does not match buffer
	StatusReady        = 7  // 1: ready
	StatusEraseSuspend = 8  // sector erase suspended
	StatusProgSuspend1 = 9  // program suspended, buffer 1
	StatusProgSuspend2 = 10 // program suspended, buffer 2
	StatusLockdown     = 11 // sector lockdown enabled
	StatusEraseProgErr = 13 // erase/program error
)

// statusBits describes each bit for values 0 and 1.
var statusBits = [16][2]string{
	0: {"Device is configured for standard DataFlash page size (264 bytes)",
		"Device is configured for 'power of 2' binary page size (256 bytes)"},
	1: {"Sector protection is disabled",
		"Sector protection is enabled"},
	2: {"Unknown density", "4-Mbit"},
	3: {"Unknown density", "4-Mbit"},
	4: {"Unknown density", "4-Mbit"},
	5: {"4-Mbit", "Unknown density"},
	6: {"Main memory page data matches buffer data",
		"Main memory page data does not match buffer data"},
	7: {"Device is busy with an internal operation",
		"Device is ready"},
	8: {"No sectors are erase suspended",
		"A sector is erase suspended"},
	9: {"No program operation has been suspended while using Buffer 1",
		"A sector is program suspended while using Buffer 1"},
	10: {"No program operation has been suspended while using Buffer 2",
		"A sector is program suspended while using Buffer 2"},
	11: {"Sector Lockdown command is disabled",
		"Sector Lockdown command is enabled"},
	12: {"Reserved", "Reserved"},
	13: {"Erase or program operation was successful",
		"Erase or program error detected"},
	14: {"Reserved", "Reserved"},
	15: {"Device is busy with an internal operation",
		"Device is ready"},
}

// DescribeBit returns the description of bit i holding value v. It returns
// "" for positions outside 0-15.
func DescribeBit(i int, v uint8) string {
	if i < 0 || i >= len(statusBits) {
		return ""
	}
	return statusBits[i][v&1]
}

// Bit reports whether bit i is set.
func (s Status) Bit(i int) bool {
	return (s>>uint(i))&1 == 1
}

// Ready reports the RDY/BUSY bit.
func (s Status) Ready() bool {
	return s.Bit(StatusReady)
}

// PageSize reports the configured page framing.
func (s Status) PageSize() PageSize {
	if s.Bit(StatusPageSize) {
		return PageSize256
	}
	return PageSize264
}

// BitDescription is one decoded status bit.
type BitDescription struct {
	Index int
	Value uint8
	Text  string
}

// Decode describes every bit, most significant first.
func (s Status) Decode() []BitDescription {
	out := make([]BitDescription, 0, len(statusBits))
	for i := len(statusBits) - 1; i >= 0; i-- {
		v := uint8(s>>uint(i)) & 1
		out = append(out, BitDescription{Index: i, Value: v, Text: DescribeBit(i, v)})
	}
	return out
}
