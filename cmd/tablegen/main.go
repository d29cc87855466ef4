// tablegen generates the Columns registration method of the entity types
// of a package.
//
//	go run github.com/zhiheng123/table-facade/cmd/tablegen ./internal/model
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "tablegen",
		Short:         "Generate table facade registration code",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCommand())
	return root
}
