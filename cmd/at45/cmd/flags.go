package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/OpenTraceLab/at45/pkg/dataflash"
	"github.com/OpenTraceLab/at45/pkg/spi"
	"github.com/OpenTraceLab/at45/pkg/spi/periphspi"
	"github.com/spf13/pflag"
)

// driverValue selects the transport behind the device path.
type driverValue string

const (
	driverSpidev driverValue = "spidev"
	driverPeriph driverValue = "periph"
	driverSim    driverValue = "sim"
)

var _ pflag.Value = (*driverValue)(nil)

func (d *driverValue) String() string { return string(*d) }

func (d *driverValue) Set(s string) error {
	switch v := driverValue(s); v {
	case driverSpidev, driverPeriph, driverSim:
		*d = v
		return nil
	case "simulator":
		*d = driverSim
		return nil
	default:
		return fmt.Errorf("unknown driver %q (want spidev, periph or sim)", s)
	}
}

func (d *driverValue) Type() string { return "driver" }

// shapeValue wraps dataflash.Shape for the command line.
type shapeValue struct {
	dataflash.Shape
}

var _ pflag.Value = (*shapeValue)(nil)

func (s *shapeValue) Set(v string) error {
	shape, err := dataflash.ParseShape(v)
	if err != nil {
		return err
	}
	s.Shape = shape
	return nil
}

func (s *shapeValue) Type() string { return "shape" }

// openConn opens the transport selected by opts. The returned sleeper is
// non-nil when the transport needs to observe settling delays itself, as the
// simulator does.
var openConn = func(opts *options) (spi.Conn, func(time.Duration), error) {
	switch opts.driver {
	case driverSim:
		id, err := strconv.ParseUint(opts.simID, 0, 32)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --sim-id %q: %w", opts.simID, err)
		}
		sim := dataflash.NewSimChip(dataflash.JEDECID(id))
		return sim, sim.Sleep, nil
	case driverPeriph:
		c, err := periphspi.Open(opts.device, dataflash.BusSpeed)
		if err != nil {
			return nil, nil, err
		}
		return c, nil, nil
	default:
		c, err := spi.Open(opts.device)
		if err != nil {
			return nil, nil, err
		}
		return c, nil, nil
	}
}
