// Command pdscatter unifies the IHME Parkinson's Disease exports and serves
// the animated risk scatter.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/pdscatter/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
