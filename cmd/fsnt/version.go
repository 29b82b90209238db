package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/fsnt"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of fsnt",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fsnt version %s\n", strings.TrimSpace(fsnt.Version))
		},
	}
}
