package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/OpenTraceLab/at45/pkg/probe"
	"github.com/spf13/cobra"
)

func newInterfacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interfaces",
		Short: "List available SPI interfaces",
		Long: `Scan the host for spidev nodes and USB to SPI bridges (CH341A, CH347, FT2232H,
MCP2221A, ...) and print a summary. Use this to find the --spidev path before
running the main command.`,
		Args: cobra.NoArgs,
		RunE: runInterfaces,
	}
}

// discoverInterfaces is replaced in tests to avoid touching the USB bus.
var discoverInterfaces = probe.DiscoverInterfaces

func runInterfaces(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	infos, err := discoverInterfaces(ctx)
	if err != nil {
		return fmt.Errorf("discover interfaces: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Detected SPI interfaces:")
	for _, iface := range infos {
		switch iface.Kind {
		case probe.InterfaceKindBridge:
			fmt.Fprintf(out, "  - %s [%s] (VID:PID %04X:%04X)\n", iface.Label(), iface.Kind, iface.VendorID, iface.ProductID)
		default:
			fmt.Fprintf(out, "  - %s [%s]\n", iface.Label(), iface.Kind)
		}
	}
	return nil
}
