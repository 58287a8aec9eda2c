package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list <project-dir>",
	Short: "List the chapter files of a project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := newService()
		exitOnError(err)

		chapters, err := svc.ListChapters(args[0])
		exitOnError(err)

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			exitOnError(enc.Encode(chapters))
			return
		}
		for _, ch := range chapters {
			fmt.Println(ch.RelativePath)
		}
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print chapter metadata as JSON")
	rootCmd.AddCommand(listCmd)
}
