// file: cmd/format.go

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Write an empty filesystem onto an image",
	Long: `Format erases the image and lays down a fresh BAM, an empty
directory and the given disk name and two-character id. Everything
previously on the image is lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		name, _ := cmd.Flags().GetString("name")
		id, _ := cmd.Flags().GetString("id")

		img, err := loadImage(file)
		if err != nil {
			return err
		}
		if err := img.Format(name, id); err != nil {
			return err
		}
		if err := saveImage(img, file); err != nil {
			return err
		}

		fmt.Printf("Formatted D64 file '%s' with name '%s' and ID '%s'\n", file, name, id)
		return nil
	},
}

func init() {
	formatCmd.Flags().StringP("file", "f", "", "image file")
	formatCmd.Flags().StringP("name", "n", "", "disk name (up to 16 characters)")
	formatCmd.Flags().StringP("id", "i", "", "disk id (2 characters)")
	formatCmd.MarkFlagRequired("file")
	formatCmd.MarkFlagRequired("name")
	formatCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(formatCmd)
}
