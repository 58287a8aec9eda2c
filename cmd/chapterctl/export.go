package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var docxOutput string

var exportDOCXCmd = &cobra.Command{
	Use:   "export-docx <file>",
	Short: "Convert a chapter's heading outline to a Word document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := newService()
		exitOnError(err)

		out := docxOutput
		if out == "" {
			out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".docx"
		}
		f, err := os.Create(out)
		exitOnError(err)

		err = svc.ExportDOCX(args[0], f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(out)
		}
		exitOnError(err)
		fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
	},
}

var openCmd = &cobra.Command{
	Use:   "open <file>",
	Short: "Open a chapter in the system viewer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := newService()
		exitOnError(err)
		exitOnError(svc.ExportChapter(args[0]))
	},
}

func init() {
	exportDOCXCmd.Flags().StringVarP(&docxOutput, "output", "o", "", "output path (default: <file>.docx)")
	rootCmd.AddCommand(exportDOCXCmd)
	rootCmd.AddCommand(openCmd)
}
