// file: pkg/d64/diskcheck.go

package d64

import (
	"fmt"
	"io"
	"math/bits"
)

// DiskCheck performs a consistency check over the image's three
// cross-referential structures: the BAM bitmap, the directory and the
// file chains.
func (img *Image) DiskCheck() error {
	bam, err := img.ReadBAM()
	if err != nil {
		return fmt.Errorf("BAM check failed: %w", err)
	}
	if err := img.checkBAMCounts(bam); err != nil {
		return fmt.Errorf("BAM check failed: %w", err)
	}
	claimed, err := img.checkDirectory(bam)
	if err != nil {
		return fmt.Errorf("directory check failed: %w", err)
	}
	if err := img.checkChains(bam, claimed); err != nil {
		return fmt.Errorf("chain check failed: %w", err)
	}
	return nil
}

// checkBAMCounts verifies that each track's stored free count equals
// the population count of its bitmap and that no bit beyond the
// track's sector count is set.
func (img *Image) checkBAMCounts(bam *BAM) error {
	for t := 1; t <= img.tracks; t++ {
		n, err := SectorsPerTrack(t)
		if err != nil {
			return err
		}
		pop := 0
		for i, b := range bam.bitmap[t-1] {
			var valid byte
			for bit := 0; bit < 8; bit++ {
				if i*8+bit < n {
					valid |= 1 << bit
				}
			}
			if b&^valid != 0 {
				return fmt.Errorf("%w: track %d has free bits past sector %d",
					ErrInvalidFormat, t, n-1)
			}
			pop += bits.OnesCount8(b)
		}
		if pop != int(bam.freeCount[t-1]) {
			return fmt.Errorf("%w: track %d count %d, bitmap %d",
				ErrInvalidFormat, t, bam.freeCount[t-1], pop)
		}
	}
	return nil
}

// checkDirectory walks the directory chain and claims its sectors.
// The reserved header sectors must not be in the free bitmap.
func (img *Image) checkDirectory(bam *BAM) (map[TrackSector]bool, error) {
	claimed := map[TrackSector]bool{
		{DirectoryTrack, BAMSector}: true,
	}

	if free, err := bam.IsFree(TrackSector{DirectoryTrack, BAMSector}); err != nil {
		return nil, err
	} else if free {
		return nil, fmt.Errorf("%w: BAM sector marked free", ErrInvalidFormat)
	}

	it := img.NewDirIterator()
	for {
		ref, _, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if ref.Index != 0 {
			continue
		}
		if claimed[ref.TrackSector] {
			return nil, fmt.Errorf("%w: directory claims track %d sector %d twice",
				ErrCorruptDirectory, ref.Track, ref.Sector)
		}
		claimed[ref.TrackSector] = true
		if free, err := bam.IsFree(ref.TrackSector); err != nil {
			return nil, err
		} else if free {
			return nil, fmt.Errorf("%w: directory sector track %d sector %d marked free",
				ErrCorruptDirectory, ref.Track, ref.Sector)
		}
	}
	return claimed, nil
}

// checkChains traces every live file chain and verifies the exclusive
// ownership rule: a sector is free in the BAM or belongs to exactly
// one chain, never both. Sectors held by soft-deleted entries stay
// used in the BAM without a live owner; that is the documented
// delete-then-purge state, not corruption.
func (img *Image) checkChains(bam *BAM, claimed map[TrackSector]bool) error {
	files, err := img.ListFiles()
	if err != nil {
		return err
	}
	for i := range files {
		e := &files[i]
		sectors, err := img.TraceChain(e.Start)
		if err != nil {
			return fmt.Errorf("file %q: %w", e.Name(), err)
		}
		for _, ts := range sectors {
			if claimed[ts] {
				return fmt.Errorf("%w: track %d sector %d owned twice (file %q)",
					ErrCorruptChain, ts.Track, ts.Sector, e.Name())
			}
			claimed[ts] = true
			if free, err := bam.IsFree(ts); err != nil {
				return err
			} else if free {
				return fmt.Errorf("%w: track %d sector %d in chain of %q but marked free",
					ErrCorruptChain, ts.Track, ts.Sector, e.Name())
			}
		}
	}
	return nil
}
