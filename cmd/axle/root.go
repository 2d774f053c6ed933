// Package axle assembles the axle CLI: boot the simulated kernel and AWM
// compositor, or print diagnostic state, mirroring the teacher's
// cobra-rooted main.go/cmd split (spec.md's ambient CLI surface).
package axle

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the "axle" command tree. version is baked in by main.go
// at link time's usual var, passed through here so versionCmd can report it.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "axle",
		Short: "axle - a simulated preemptive-multitasking kernel and window manager",
	}

	root.AddCommand(newBootCmd())
	root.AddCommand(newDebugCmd())
	root.AddCommand(newVersionCmd(version))
	return root
}
