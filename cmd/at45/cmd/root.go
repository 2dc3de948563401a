package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/at45/internal/config"
	"github.com/OpenTraceLab/at45/pkg/chipdb"
	"github.com/OpenTraceLab/at45/pkg/dataflash"
	"github.com/OpenTraceLab/at45/pkg/spi"
	"github.com/OpenTraceLab/at45/pkg/spi/periphspi"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// options holds the values bound to command line flags.
type options struct {
	verbose    bool
	device     string
	pageSize   string
	showStatus bool
	driver     driverValue
	shape      shapeValue
	chipFiles  []string
	simID      string
}

func newRootCmd() *cobra.Command {
	opts := &options{
		device: config.DefaultDevice,
		driver: driverSpidev,
		simID:  fmt.Sprintf("0x%08X", uint32(dataflash.Chips()[0].JEDECID)),
	}

	rootCmd := &cobra.Command{
		Use:   "at45 [device]",
		Short: "Query and configure AT45 DataFlash chips over SPI",
		Long: `Identify an Adesto AT45 DataFlash chip by its JEDEC ID, optionally switch its
page size between 264 byte (standard) and 256 byte ("power of 2") pages, and
decode its status register.

Changing the page size reprograms a nonvolatile setting that can only be
written a limited number of times. It is only done when --pagesize is given.

Examples:
  at45                                   # Identify the chip on /dev/spidev0.0
  at45 -d /dev/spidev1.0 -s              # Identify and decode the status register
  at45 -p 256 -s                         # Switch to 256 byte pages, then show status
  at45 --driver sim -s                   # Exercise the tool without hardware`,
		Version:       "0.3.0",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := opts.applyConfig(cmd.Flags()); err != nil {
				return err
			}
			if len(args) == 1 && !cmd.Flags().Changed("spidev") {
				opts.device = args[0]
			}
			return runRoot(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringSliceVar(&opts.chipFiles, "chips", nil,
		"chip description files or directories adding table entries")

	rootCmd.Flags().StringVarP(&opts.device, "spidev", "d", opts.device, "SPI device path")
	rootCmd.Flags().StringVarP(&opts.pageSize, "pagesize", "p", "",
		`reprogram page size: "256" selects 256 byte pages, anything else 264`)
	rootCmd.Flags().BoolVarP(&opts.showStatus, "status", "s", false, "read and decode the status register")
	rootCmd.Flags().Var(&opts.driver, "driver", "transport driver (spidev, periph, sim)")
	rootCmd.Flags().Var(&opts.shape, "shape", "transfer shape (duplex, split)")
	rootCmd.Flags().StringVar(&opts.simID, "sim-id", opts.simID, "simulator: JEDEC ID to answer with")

	rootCmd.AddCommand(newInterfacesCmd())
	rootCmd.AddCommand(newChipsCmd(opts))
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code. An
// unsupported chip has already been reported on stdout and is not repeated.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	// A nil slice would make cobra fall back to os.Args.
	rootCmd.SetArgs(append([]string{}, args...))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		var unsupported *dataflash.UnsupportedChipError
		if !errors.As(err, &unsupported) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

// applyConfig fills every option the user did not set on the command line
// from the config file.
func (o *options) applyConfig(flags *pflag.FlagSet) error {
	path, err := config.Path()
	if err != nil {
		return fmt.Errorf("locate config: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	if !flags.Changed("spidev") && cfg.Device != "" {
		o.device = cfg.Device
	}
	if !flags.Changed("driver") && cfg.Driver != "" {
		if err := o.driver.Set(cfg.Driver); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	}
	if !flags.Changed("shape") && cfg.Shape != "" {
		if err := o.shape.Set(cfg.Shape); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	}
	o.chipFiles = append(append([]string(nil), cfg.ChipFiles...), o.chipFiles...)
	return nil
}

// chipTable returns the built-in chips followed by any loaded from files.
func (o *options) chipTable() (dataflash.Table, error) {
	extra, err := chipdb.Load(o.chipFiles...)
	if err != nil {
		return nil, err
	}
	return dataflash.NewTable(extra...), nil
}

func runRoot(cmd *cobra.Command, opts *options) error {
	out := cmd.OutOrStdout()
	log := newLogger(cmd.ErrOrStderr(), opts.verbose)

	table, err := opts.chipTable()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Opening %s...\n", opts.device)
	conn, sleep, err := openConn(opts)
	if err != nil {
		return fmt.Errorf("%s driver: %w", opts.driver, err)
	}
	defer conn.Close()

	switch c := conn.(type) {
	case *spi.SPI:
		mode, modeErr := c.Mode()
		hz, hzErr := c.MaxSpeedHz()
		log.Debug().
			Str("path", c.Path()).
			Str("mode", mode.String()).AnErr("mode_err", modeErr).
			Uint32("max_speed_hz", hz).AnErr("speed_err", hzErr).
			Msg("spidev opened")
	case *periphspi.Conn:
		log.Debug().
			Str("port", opts.device).
			Str("frequency", c.Frequency().String()).
			Msg("periph port opened")
	}

	devOpts := []dataflash.Option{
		dataflash.WithShape(opts.shape.Shape),
		dataflash.WithLogger(log),
	}
	if sleep != nil {
		devOpts = append(devOpts, dataflash.WithSleeper(sleep))
	}
	dev := dataflash.New(conn, devOpts...)

	id, err := dev.ReadJEDECID()
	if err != nil {
		return err
	}
	log.Debug().
		Str("id", id.Describe()).
		Uint8("family", id.Family()).
		Uint8("density", id.DensityCode()).
		Msg("JEDEC ID read")

	chip, err := table.Identify(id, func(c dataflash.Chip) {
		fmt.Fprintf(out, "Checking %s...\n", c.Name)
	})
	if err != nil {
		var unsupported *dataflash.UnsupportedChipError
		if errors.As(err, &unsupported) {
			fmt.Fprintf(out, "No supported chips found (id = 0x%08X)\n", uint32(unsupported.ID))
		}
		return err
	}
	fmt.Fprintf(out, "Found %s\n", chip.Name)

	if cmd.Flags().Changed("pagesize") {
		ps := dataflash.ParsePageSize(opts.pageSize)
		fmt.Fprintf(out, "Setting page size to %s bytes...\n", ps)
		if err := dev.SetPageSize(ps); err != nil {
			return err
		}
	}

	if opts.showStatus {
		status, err := dev.ReadStatus()
		if err != nil {
			return err
		}
		logStatus(log, status)
		printStatus(out, status)
	}
	return nil
}

func printStatus(w io.Writer, status dataflash.Status) {
	fmt.Fprintf(w, "Status: %04X\n", uint16(status))
	for _, b := range status.Decode() {
		fmt.Fprintf(w, "\t[%02d]: %d = %s\n", b.Index, b.Value, b.Text)
	}
}

func logStatus(log zerolog.Logger, status dataflash.Status) {
	log.Debug().
		Bool("ready", status.Ready()).
		Str("page_size", status.PageSize().String()).
		Bool("protect", status.Bit(dataflash.StatusProtect)).
		Bool("compare_mismatch", status.Bit(dataflash.StatusCompare)).
		Bool("erase_suspend", status.Bit(dataflash.StatusEraseSuspend)).
		Bool("prog_suspend_buf1", status.Bit(dataflash.StatusProgSuspend1)).
		Bool("prog_suspend_buf2", status.Bit(dataflash.StatusProgSuspend2)).
		Bool("lockdown", status.Bit(dataflash.StatusLockdown)).
		Bool("erase_prog_error", status.Bit(dataflash.StatusEraseProgErr)).
		Msg("status decoded")
}
