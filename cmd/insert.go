// file: cmd/insert.go

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/d64tools/d64tools/internal/logger"
)

var insertCmd = &cobra.Command{
	Use:   "insert",
	Short: "Store a host file on an image",
	Long: `Insert reads a host file and stores its bytes as a PRG file on
the image. The on-disk name defaults to the host file's base name,
uppercased with its extension dropped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		input, _ := cmd.Flags().GetString("input")
		name, _ := cmd.Flags().GetString("name")

		data, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if name == "" {
			base := filepath.Base(input)
			name = strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
		}

		img, err := loadImage(file)
		if err != nil {
			return err
		}
		if err := img.InsertFile(name, data); err != nil {
			return err
		}
		if err := saveImage(img, file); err != nil {
			return err
		}

		logger.LogDebug("inserted file", map[string]interface{}{
			"name":  name,
			"bytes": len(data),
		})
		fmt.Printf("Inserted '%s' (%d bytes) into '%s'\n", name, len(data), file)
		return nil
	},
}

func init() {
	insertCmd.Flags().StringP("file", "f", "", "image file")
	insertCmd.Flags().StringP("input", "i", "", "host file to insert")
	insertCmd.Flags().StringP("name", "n", "", "on-disk filename (default derived from input)")
	insertCmd.MarkFlagRequired("file")
	insertCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(insertCmd)
}
