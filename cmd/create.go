// file: cmd/create.go

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d64tools/d64tools/internal/config"
	"github.com/d64tools/d64tools/pkg/d64"
)

var createTracks int

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new blank disk image",
	Long: `Create writes a new all-zero image of 35 or 40 tracks. The
image has no filesystem yet; run format before putting files on it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		tracks := createTracks
		if !cmd.Flags().Changed("tracks") && config.Instance.DefaultTracks != 0 {
			tracks = config.Instance.DefaultTracks
		}

		img, err := d64.NewImage(tracks)
		if err != nil {
			return err
		}
		if err := saveImage(img, file); err != nil {
			return err
		}

		fmt.Printf("Created new D64 file '%s' with %d tracks\n", file, tracks)
		return nil
	},
}

func init() {
	createCmd.Flags().StringP("file", "f", "", "image file to create")
	createCmd.Flags().IntVarP(&createTracks, "tracks", "t", 35, "track count (35 or 40)")
	createCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(createCmd)
}
