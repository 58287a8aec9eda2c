package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dgallion1/chapterd/internal/htmldoc"
	"github.com/spf13/cobra"
)

var splitPart string

var splitCmd = &cobra.Command{
	Use:   "split <file>",
	Short: "Print the doctype, head or body of a chapter",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		raw, err := os.ReadFile(args[0])
		exitOnError(err)

		res := htmldoc.Split(string(raw))
		switch splitPart {
		case "body":
			fmt.Print(res.BodyContent)
		case "head":
			fmt.Print(res.HeadContent)
		case "doctype":
			fmt.Println(res.Doctype)
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			exitOnError(enc.Encode(res))
		default:
			exitOnError(fmt.Errorf("unknown part %q (want body, head, doctype or json)", splitPart))
		}
	},
}

func init() {
	splitCmd.Flags().StringVar(&splitPart, "part", "json", "part to print: body, head, doctype or json")
	rootCmd.AddCommand(splitCmd)
}
