package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emilycares/java-lsp/java"
	"github.com/emilycares/java-lsp/java/parser"
)

func newParseCmd() *cobra.Command {
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse <file.java>",
		Short: "Parse a .java file and dump the declaration tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}

			node, err := parser.ParseFile(data, filename)
			if err != nil {
				return err
			}

			if includePositions {
				fmt.Println(node.StringWithPositions())
			} else {
				fmt.Println(node.String())
			}

			for _, d := range java.DiagnosticsOf(node) {
				fmt.Fprintf(os.Stderr, "%s:%d:%d: %s\n",
					filename, d.Span.Start.Line, d.Span.Start.Col, d.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includePositions, "positions", false, "include source positions in the dump")
	return cmd
}
