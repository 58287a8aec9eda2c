package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renderMDCmd = &cobra.Command{
	Use:   "render-md <file>",
	Short: "Render a markdown file to HTML",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := newService()
		exitOnError(err)

		out, err := svc.RenderMarkdown(args[0])
		exitOnError(err)
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(renderMDCmd)
}
