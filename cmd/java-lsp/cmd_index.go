package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/emilycares/java-lsp/index"
)

func newIndexCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "index <path>...",
		Short: "Index source directories and jars into a database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix := index.New()
			for _, path := range args {
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("stat %s: %w", path, err)
				}
				switch {
				case info.IsDir():
					if err := ix.ScanDir(path); err != nil {
						return fmt.Errorf("scan %s: %w", path, err)
					}
				case filepath.Ext(path) == ".jar" || filepath.Ext(path) == ".zip":
					if err := ix.ScanJar(path); err != nil {
						return fmt.Errorf("scan %s: %w", path, err)
					}
				case filepath.Ext(path) == ".java":
					if err := ix.ScanFile(path); err != nil {
						return fmt.Errorf("scan %s: %w", path, err)
					}
				default:
					return fmt.Errorf("unsupported path: %s", path)
				}
			}

			store, err := index.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Migrate(); err != nil {
				return err
			}
			if err := store.SaveIndex(ix); err != nil {
				return err
			}

			fmt.Printf("indexed %d classes into %s\n", len(ix.ClassPaths()), dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "java-lsp.db", "database file to write")
	return cmd
}
