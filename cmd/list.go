// file: cmd/list.go

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the files on an image",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		img, err := loadImage(file)
		if err != nil {
			return err
		}

		bam, err := img.ReadBAM()
		if err != nil {
			return err
		}
		files, err := img.ListFiles()
		if err != nil {
			return err
		}

		fmt.Printf("0 \"%s\" %s\n", bam.DiskName(), bam.DiskID())
		for _, e := range files {
			fmt.Printf("%-5d %-18q %s\n", e.Blocks, e.Name(), e.TypeString())
		}
		fmt.Printf("%d BLOCKS FREE.\n", bam.FreeSectors())
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("file", "f", "", "image file")
	listCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(listCmd)
}
