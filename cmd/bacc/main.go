// Command bacc estimates the Basic Allowance for Child Care and runs the
// advocacy survey.
package main

import (
	"os"

	"github.com/AbdelazizMoustafa10m/bacc/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
