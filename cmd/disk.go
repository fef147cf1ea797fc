// file: cmd/disk.go

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d64tools/d64tools/pkg/d64"
)

var setDiskNameCmd = &cobra.Command{
	Use:   "set-disk-name",
	Short: "Change the disk name in the BAM",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		name, _ := cmd.Flags().GetString("name")

		if err := updateBAM(file, func(bam *d64.BAM) error {
			return bam.SetDiskName(name)
		}); err != nil {
			return err
		}
		fmt.Printf("Disk name set to: %s\n", name)
		return nil
	},
}

var setDiskIDCmd = &cobra.Command{
	Use:   "set-disk-id",
	Short: "Change the disk id in the BAM",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		id, _ := cmd.Flags().GetString("id")

		if err := updateBAM(file, func(bam *d64.BAM) error {
			return bam.SetDiskID(id)
		}); err != nil {
			return err
		}
		fmt.Printf("Disk ID set to: %s\n", id)
		return nil
	},
}

func updateBAM(file string, fn func(*d64.BAM) error) error {
	img, err := loadImage(file)
	if err != nil {
		return err
	}
	bam, err := img.ReadBAM()
	if err != nil {
		return err
	}
	if err := fn(bam); err != nil {
		return err
	}
	if err := img.WriteBAM(bam); err != nil {
		return err
	}
	return saveImage(img, file)
}

func init() {
	setDiskNameCmd.Flags().StringP("file", "f", "", "image file")
	setDiskNameCmd.Flags().StringP("name", "n", "", "new disk name")
	setDiskNameCmd.MarkFlagRequired("file")
	setDiskNameCmd.MarkFlagRequired("name")

	setDiskIDCmd.Flags().StringP("file", "f", "", "image file")
	setDiskIDCmd.Flags().StringP("id", "i", "", "new disk id (2 characters)")
	setDiskIDCmd.MarkFlagRequired("file")
	setDiskIDCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(setDiskNameCmd)
	rootCmd.AddCommand(setDiskIDCmd)
}
