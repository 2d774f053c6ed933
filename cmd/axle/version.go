package axle

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the axle version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("axle version %s\n", version)
		},
	}
}
