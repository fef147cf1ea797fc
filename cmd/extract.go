// file: cmd/extract.go

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Copy a file from an image to the host",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		name, _ := cmd.Flags().GetString("name")
		output, _ := cmd.Flags().GetString("output")

		img, err := loadImage(file)
		if err != nil {
			return err
		}
		content, err := img.ExtractFile(name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, content, 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		fmt.Printf("File '%s' extracted to '%s'\n", name, output)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringP("file", "f", "", "image file")
	extractCmd.Flags().StringP("name", "n", "", "on-disk filename")
	extractCmd.Flags().StringP("output", "o", "", "host file to write")
	extractCmd.MarkFlagRequired("file")
	extractCmd.MarkFlagRequired("name")
	extractCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(extractCmd)
}
