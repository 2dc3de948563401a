package dataflash

import "fmt"

// JEDECID is the 32 bit identifier returned by the Read JEDEC ID command,
// little-endian as transferred: byte 0 is the manufacturer.
type JEDECID uint32

// UnknownJEDECID is returned when the ID could not be read.
const UnknownJEDECID JEDECID = 0xFFFFFFFF

// Manufacturer returns the JEDEC manufacturer code (first byte on the wire).
func (id JEDECID) Manufacturer() uint8 {
	return uint8(id)
}

// Device returns the two device ID bytes, first one in the high byte.
func (id JEDECID) Device() uint16 {
	return uint16(uint8(id>>8))<<8 | uint16(uint8(id>>16))
}

// Family returns the DataFlash family code (device byte 1, bits 7-5).
func (id JEDECID) Family() uint8 {
	return uint8(id>>8) >> 5
}

// DensityCode returns device byte 1, bits 4-0.
func (id JEDECID) DensityCode() uint8 {
	return uint8(id>>8) & 0x1F
}

// ExtendedInfo returns the fourth byte, the extended device information
// string length.
func (id JEDECID) ExtendedInfo() uint8 {
	return uint8(id >> 24)
}

func (id JEDECID) String() string {
	return fmt.Sprintf("0x%08X", uint32(id))
}

// Describe formats the ID with its decoded fields.
func (id JEDECID) Describe() string {
	m, _ := LookupManufacturer(id.Manufacturer())
	return fmt.Sprintf("%s (Mfg: %s, Device: 0x%04X, EDI: %d)",
		id, m.Name, id.Device(), id.ExtendedInfo())
}

// Manufacturer is a JEDEC JEP106 bank 1 entry.
type Manufacturer struct {
	Code uint8
	Name string
}

// manufacturers lists the vendors commonly seen on serial flash parts.
var manufacturers = map[uint8]Manufacturer{
	0x01: {Code: 0x01, Name: "AMD/Spansion"},
	0x1F: {Code: 0x1F, Name: "Atmel/Adesto"},
	0x20: {Code: 0x20, Name: "STMicroelectronics/Micron"},
	0x89: {Code: 0x89, Name: "Intel"},
	0x9D: {Code: 0x9D, Name: "ISSI"},
	0xBF: {Code: 0xBF, Name: "SST"},
	0xC2: {Code: 0xC2, Name: "Macronix"},
	0xC8: {Code: 0xC8, Name: "GigaDevice"},
	0xEF: {Code: 0xEF, Name: "Winbond"},
}

// LookupManufacturer returns the manufacturer for code. Unknown codes yield a
// placeholder entry and false.
func LookupManufacturer(code uint8) (Manufacturer, bool) {
	m, ok := manufacturers[code]
	if !ok {
		return Manufacturer{
			Code: code,
			Name: fmt.Sprintf("Unknown (0x%02X)", code),
		}, false
	}
	return m, true
}
