// file: cmd/bam.go

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d64tools/d64tools/pkg/d64"
)

var showBamCmd = &cobra.Command{
	Use:   "show-bam",
	Short: "Show the Block Availability Map",
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

		fmt.Printf("Disk Name: %s\n", bam.DiskName())
		fmt.Printf("Disk ID: %s\n", bam.DiskID())
		fmt.Println("Free sectors per track:")
		for track := 1; track <= img.Tracks(); track++ {
			n, err := bam.TrackFreeCount(track)
			if err != nil {
				return err
			}
			fmt.Printf("Track %d: %d free sectors\n", track, n)
		}
		fmt.Printf("Total: %d free sectors\n", bam.FreeSectors())
		return nil
	},
}

var findFreeCmd = &cobra.Command{
	Use:   "find-free-sector",
	Short: "Locate the next sector the allocator would hand out",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		near, _ := cmd.Flags().GetInt("near")

		img, err := loadImage(file)
		if err != nil {
			return err
		}
		bam, err := img.ReadBAM()
		if err != nil {
			return err
		}

		ts, err := bam.FindFreeSector(near)
		if errors.Is(err, d64.ErrDiskFull) {
			fmt.Println("No free sectors available")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Found free sector: track %d, sector %d\n", ts.Track, ts.Sector)
		return nil
	},
}

var allocateSectorCmd = &cobra.Command{
	Use:   "allocate-sector",
	Short: "Mark one sector as used in the BAM",
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateBAM(cmd, func(bam *d64.BAM, ts d64.TrackSector) error {
			return bam.MarkUsed(ts)
		}, "Allocated sector %d on track %d\n")
	},
}

var freeSectorCmd = &cobra.Command{
	Use:   "free-sector",
	Short: "Mark one sector as free in the BAM",
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateBAM(cmd, func(bam *d64.BAM, ts d64.TrackSector) error {
			return bam.MarkFree(ts)
		}, "Freed sector %d on track %d\n")
	},
}

// mutateBAM loads the image, applies one BAM mutation and writes the
// image back.
func mutateBAM(cmd *cobra.Command, fn func(*d64.BAM, d64.TrackSector) error, doneMsg string) error {
	file, _ := cmd.Flags().GetString("file")
	track, _ := cmd.Flags().GetInt("track")
	sector, _ := cmd.Flags().GetInt("sector")

	img, err := loadImage(file)
	if err != nil {
		return err
	}
	bam, err := img.ReadBAM()
	if err != nil {
		return err
	}
	ts := d64.TrackSector{Track: track, Sector: sector}
	if err := fn(bam, ts); err != nil {
		return err
	}
	if err := img.WriteBAM(bam); err != nil {
		return err
	}
	if err := saveImage(img, file); err != nil {
		return err
	}
	fmt.Printf(doneMsg, sector, track)
	return nil
}

func init() {
	showBamCmd.Flags().StringP("file", "f", "", "image file")
	showBamCmd.MarkFlagRequired("file")

	findFreeCmd.Flags().StringP("file", "f", "", "image file")
	findFreeCmd.Flags().Int("near", 0, "bias the search toward this track (0 = directory track)")
	findFreeCmd.MarkFlagRequired("file")

	for _, c := range []*cobra.Command{allocateSectorCmd, freeSectorCmd} {
		c.Flags().StringP("file", "f", "", "image file")
		c.Flags().IntP("track", "t", 0, "track number (1-based)")
		c.Flags().IntP("sector", "s", 0, "sector number (0-based)")
		c.MarkFlagRequired("file")
		c.MarkFlagRequired("track")
	}

	rootCmd.AddCommand(showBamCmd)
	rootCmd.AddCommand(findFreeCmd)
	rootCmd.AddCommand(allocateSectorCmd)
	rootCmd.AddCommand(freeSectorCmd)
}
