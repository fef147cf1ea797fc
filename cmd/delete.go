// file: cmd/delete.go

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a file from an image",
	Long: `Delete marks the file's directory entry as scratched. Its
sectors remain allocated until the entry is purged; pass --purge to
scratch the entry and release its sector chain in one step.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		name, _ := cmd.Flags().GetString("name")
		purge, _ := cmd.Flags().GetBool("purge")

		img, err := loadImage(file)
		if err != nil {
			return err
		}

		if purge {
			err = img.PurgeFile(name)
		} else {
			err = img.DeleteFile(name)
		}
		if err != nil {
			return err
		}
		if err := saveImage(img, file); err != nil {
			return err
		}

		if purge {
			fmt.Printf("Purged '%s' from '%s'\n", name, file)
		} else {
			fmt.Printf("Deleted '%s' from '%s' (sectors still allocated; purge to release)\n", name, file)
		}
		return nil
	},
}

func init() {
	deleteCmd.Flags().StringP("file", "f", "", "image file")
	deleteCmd.Flags().StringP("name", "n", "", "on-disk filename")
	deleteCmd.Flags().Bool("purge", false, "also release the file's sector chain")
	deleteCmd.MarkFlagRequired("file")
	deleteCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(deleteCmd)
}
