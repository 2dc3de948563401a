package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/OpenTraceLab/at45/pkg/dataflash"
	"github.com/spf13/cobra"
)

// ChipInfo is the structured form of a chip table entry.
type ChipInfo struct {
	JEDECID      string `json:"jedec_id"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Device       string `json:"device"`
	Builtin      bool   `json:"builtin"`
}

func newChipsCmd(opts *options) *cobra.Command {
	var outputJSON bool
	chipsCmd := &cobra.Command{
		Use:   "chips",
		Short: "List supported chips",
		Long: `Print the chip table used for identification: the built-in entries followed
by those loaded with --chips, in lookup order.

Examples:
  at45 chips
  at45 chips --chips /etc/at45 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := opts.applyConfig(cmd.Flags()); err != nil {
				return err
			}
			table, err := opts.chipTable()
			if err != nil {
				return err
			}
			infos := buildChipInfo(table)
			if outputJSON {
				return outputChipsJSON(cmd.OutOrStdout(), infos)
			}
			return outputChipsHuman(cmd.OutOrStdout(), infos)
		},
	}
	chipsCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON (for programmatic access)")
	return chipsCmd
}

func buildChipInfo(table dataflash.Table) []ChipInfo {
	builtin := len(dataflash.Chips())
	infos := make([]ChipInfo, len(table))
	for i, c := range table {
		m, _ := dataflash.LookupManufacturer(c.JEDECID.Manufacturer())
		infos[i] = ChipInfo{
			JEDECID:      c.JEDECID.String(),
			Name:         c.Name,
			Manufacturer: m.Name,
			Device:       fmt.Sprintf("0x%04X", c.JEDECID.Device()),
			Builtin:      i < builtin,
		}
	}
	return infos
}

func outputChipsJSON(w io.Writer, infos []ChipInfo) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(infos)
}

func outputChipsHuman(w io.Writer, infos []ChipInfo) error {
	for _, c := range infos {
		source := "file"
		if c.Builtin {
			source = "built-in"
		}
		fmt.Fprintf(w, "%s  %-28s %-20s device %s (%s)\n", c.JEDECID, c.Name, c.Manufacturer, c.Device, source)
	}
	return nil
}
