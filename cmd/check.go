// file: cmd/check.go

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a consistency check over an image",
	Long: `Check verifies the image's cross-referential structures: every
track's free count against its bitmap, the directory chain, and every
live file chain against the BAM's idea of what is allocated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		img, err := loadImage(file)
		if err != nil {
			return err
		}
		if err := img.DiskCheck(); err != nil {
			return err
		}
		fmt.Printf("'%s' is consistent\n", file)
		return nil
	},
}

func init() {
	checkCmd.Flags().StringP("file", "f", "", "image file")
	checkCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(checkCmd)
}
