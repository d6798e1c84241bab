// Package cli implements the manifestctl command line.
package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "manifestctl",
		Short:         "Request web app manifests from the manifest service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newGenerateCommand())
	return root
}
