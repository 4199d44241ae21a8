// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"runtime"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the interpreter version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "tinylisp %s (%s %s/%s)\n",
			lisp.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
