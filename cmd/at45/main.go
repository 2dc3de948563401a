// at45 identifies an AT45 DataFlash chip on an SPI bus, optionally switches
// its page size and decodes its status register.
package main

import "github.com/OpenTraceLab/at45/cmd/at45/cmd"

func main() {
	cmd.Execute()
}
