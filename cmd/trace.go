// file: cmd/trace.go

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d64tools/d64tools/pkg/d64"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Show the sector chain of a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		name, _ := cmd.Flags().GetString("name")

		img, err := loadImage(file)
		if err != nil {
			return err
		}
		sectors, err := img.TraceFile(name)
		if errors.Is(err, d64.ErrFileNotFound) {
			fmt.Printf("File '%s' not found on the disk\n", name)
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("File '%s' is located in the following sectors:\n", name)
		for i, ts := range sectors {
			fmt.Printf("  Block %d: Track %d, Sector %d\n", i+1, ts.Track, ts.Sector)
		}
		fmt.Printf("Total blocks: %d\n", len(sectors))
		return nil
	},
}

func init() {
	traceCmd.Flags().StringP("file", "f", "", "image file")
	traceCmd.Flags().StringP("name", "n", "", "on-disk filename")
	traceCmd.MarkFlagRequired("file")
	traceCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(traceCmd)
}
