// Command fleetsimd is the ASIC fleet simulator binary, structured the
// way Snider-Mining's cmd/mining lays out its CLI: a thin main that only
// calls into cmd.Execute.
package main

import (
	"fmt"
	"os"

	"github.com/asicfleet/simulator/cmd/fleetsimd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
