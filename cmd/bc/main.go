// Command bc compiles bb programs to Windows Batch (.cmd) scripts.
package main

import (
	"os"

	"github.com/trgwii/bc/cmd/bc/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
