// Package dataflash speaks the small subset of the Adesto AT45 DataFlash
// command set needed to identify a chip, switch its page size and decode its
// status register.
//
// # Overview
//
// Three fixed commands are supported:
//   - Read JEDEC ID (0x9F): 4 response bytes, little-endian as transferred
//   - Status Register Read (0xD7): 2 response bytes
//   - Configure page size (0x3D 0x2A 0x80 0xA6|0xA7): no response
//
// Every command goes through Device.Exchange, which turns a Command into spi
// transfers according to the device Shape and strips the bytes clocked in
// while the command itself was on the bus.
//
// # Usage
//
//	conn, err := spi.Open("/dev/spidev0.0")
//	dev := dataflash.New(conn)
//	id, err := dev.ReadJEDECID()
//	chip, err := dataflash.NewTable().Identify(id, nil)
//	status, err := dev.ReadStatus()
//	for _, b := range status.Decode() {
//		fmt.Printf("[%02d]: %d = %s\n", b.Index, b.Value, b.Text)
//	}
//
// # Page size
//
// The page size setting is stored in nonvolatile memory and can only be
// programmed a limited number of times. SetPageSize is never issued implicitly;
// after it succeeds the device waits SettleDelay before returning so the next
// status read observes the new configuration.
package dataflash
