// file: pkg/d64/bam_test.go

package d64

import (
	"errors"
	"math/bits"
	"testing"
)

func newFormattedImage(t *testing.T, tracks int) *Image {
	t.Helper()
	img, err := NewImage(tracks)
	if err != nil {
		t.Fatalf("NewImage(%d) failed: %v", tracks, err)
	}
	if err := img.Format("MYDISK", "01"); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	return img
}

func TestFormatFreeSectors(t *testing.T) {
	img := newFormattedImage(t, StandardTracks)
	bam, err := img.ReadBAM()
	if err != nil {
		t.Fatalf("ReadBAM failed: %v", err)
	}

	// Everything free except the BAM and directory-header sectors.
	if got := bam.FreeSectors(); got != 683-2 {
		t.Errorf("FreeSectors = %d, want %d", got, 683-2)
	}

	for _, ts := range []TrackSector{{DirectoryTrack, BAMSector}, {DirectoryTrack, DirectorySector}} {
		free, err := bam.IsFree(ts)
		if err != nil {
			t.Fatalf("IsFree(%v) failed: %v", ts, err)
		}
		if free {
			t.Errorf("reserved sector %v is marked free", ts)
		}
	}
}

func TestFormatMetadata(t *testing.T) {
	img := newFormattedImage(t, StandardTracks)
	bam, err := img.ReadBAM()
	if err != nil {
		t.Fatalf("ReadBAM failed: %v", err)
	}
	if got := bam.DiskName(); got != "MYDISK" {
		t.Errorf("DiskName = %q, want %q", got, "MYDISK")
	}
	if got := bam.DiskID(); got != "01" {
		t.Errorf("DiskID = %q, want %q", got, "01")
	}
}

func TestReadBAMRejectsBadMarker(t *testing.T) {
	img := newFormattedImage(t, StandardTracks)
	sec, err := img.ReadSector(TrackSector{DirectoryTrack, BAMSector})
	if err != nil {
		t.Fatalf("ReadSector failed: %v", err)
	}
	sec[2] = 0x00
	if err := img.WriteSector(TrackSector{DirectoryTrack, BAMSector}, sec); err != nil {
		t.Fatalf("WriteSector failed: %v", err)
	}
	if _, err := img.ReadBAM(); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ReadBAM = %v, want ErrInvalidFormat", err)
	}
}

func TestMarkUsedGuard(t *testing.T) {
	img := newFormattedImage(t, StandardTracks)
	bam, _ := img.ReadBAM()

	ts := TrackSector{1, 0}
	if err := bam.MarkUsed(ts); err != nil {
		t.Fatalf("MarkUsed failed: %v", err)
	}
	if err := bam.MarkUsed(ts); !errors.Is(err, ErrAlreadyAllocated) {
		t.Errorf("second MarkUsed = %v, want ErrAlreadyAllocated", err)
	}
	if n, _ := bam.TrackFreeCount(1); n != 20 {
		t.Errorf("track 1 free count = %d, want 20", n)
	}

	if err := bam.MarkFree(ts); err != nil {
		t.Fatalf("MarkFree failed: %v", err)
	}
	if err := bam.MarkFree(ts); !errors.Is(err, ErrAlreadyFree) {
		t.Errorf("second MarkFree = %v, want ErrAlreadyFree", err)
	}
	if n, _ := bam.TrackFreeCount(1); n != 21 {
		t.Errorf("track 1 free count = %d, want 21", n)
	}
}

func TestMarkUsedZeroCountCorruption(t *testing.T) {
	img := newFormattedImage(t, StandardTracks)

	// Corrupt input: track 1's stored count says no free sectors while
	// its bitmap still has free bits set.
	sec, err := img.sector(TrackSector{DirectoryTrack, BAMSector})
	if err != nil {
		t.Fatalf("sector failed: %v", err)
	}
	sec[trackEntryOffset(1)] = 0

	bam, err := img.ReadBAM()
	if err != nil {
		t.Fatalf("ReadBAM failed: %v", err)
	}
	if err := bam.MarkUsed(TrackSector{1, 0}); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("MarkUsed on zero-count track = %v, want ErrInvalidFormat", err)
	}
	// The record must be untouched: no wrapped count, no cleared bit.
	if n, _ := bam.TrackFreeCount(1); n != 0 {
		t.Errorf("track 1 free count = %d, want 0", n)
	}
	if free, _ := bam.IsFree(TrackSector{1, 0}); !free {
		t.Error("free bit cleared despite the failed MarkUsed")
	}
}

func TestBAMBoundsChecks(t *testing.T) {
	img := newFormattedImage(t, StandardTracks)
	bam, _ := img.ReadBAM()
	for _, ts := range []TrackSector{{0, 0}, {36, 0}, {1, 21}, {18, 19}} {
		if _, err := bam.IsFree(ts); !errors.Is(err, ErrInvalidGeometry) {
			t.Errorf("IsFree(%v) = %v, want ErrInvalidGeometry", ts, err)
		}
		if err := bam.MarkUsed(ts); !errors.Is(err, ErrInvalidGeometry) {
			t.Errorf("MarkUsed(%v) = %v, want ErrInvalidGeometry", ts, err)
		}
	}
}

func TestFindFreeSectorNeverReturnsReserved(t *testing.T) {
	img := newFormattedImage(t, StandardTracks)
	bam, _ := img.ReadBAM()

	// Exhaust the disk one sector at a time; the reserved sectors must
	// never be offered.
	for {
		ts, err := bam.FindFreeSector(0)
		if errors.Is(err, ErrDiskFull) {
			break
		}
		if err != nil {
			t.Fatalf("FindFreeSector failed: %v", err)
		}
		if ts == (TrackSector{DirectoryTrack, BAMSector}) || ts == (TrackSector{DirectoryTrack, DirectorySector}) {
			t.Fatalf("FindFreeSector offered reserved sector %v", ts)
		}
		if err := bam.MarkUsed(ts); err != nil {
			t.Fatalf("MarkUsed(%v) failed: %v", ts, err)
		}
	}
	if bam.FreeSectors() != 0 {
		t.Errorf("disk reported full with %d sectors free", bam.FreeSectors())
	}
}

func TestFindFreeSectorSpiralsFromDirectory(t *testing.T) {
	img := newFormattedImage(t, StandardTracks)
	bam, _ := img.ReadBAM()

	ts, err := bam.FindFreeSector(0)
	if err != nil {
		t.Fatalf("FindFreeSector failed: %v", err)
	}
	if ts.Track != DirectoryTrack {
		t.Errorf("first allocation on track %d, want %d", ts.Track, DirectoryTrack)
	}
}

func TestFindFreeSectorInterleave(t *testing.T) {
	img := newFormattedImage(t, StandardTracks)
	bam, _ := img.ReadBAM()

	// On an empty track the second offer should sit one stride past
	// the first.
	first, err := bam.FindFreeSector(1)
	if err != nil {
		t.Fatalf("FindFreeSector failed: %v", err)
	}
	if err := bam.MarkUsed(first); err != nil {
		t.Fatalf("MarkUsed failed: %v", err)
	}
	second, err := bam.FindFreeSector(first.Track)
	if err != nil {
		t.Fatalf("FindFreeSector failed: %v", err)
	}
	if second.Track != first.Track {
		t.Fatalf("second offer moved to track %d", second.Track)
	}
	n, _ := SectorsPerTrack(first.Track)
	if want := (first.Sector + Interleave) % n; second.Sector != want {
		t.Errorf("second offer sector %d, want %d", second.Sector, want)
	}
}

func TestShowBAMCountMatchesBitmap(t *testing.T) {
	img := newFormattedImage(t, StandardTracks)
	if err := img.InsertFile("MYFILE", make([]byte, 1000)); err != nil {
		t.Fatalf("InsertFile failed: %v", err)
	}

	bam, err := img.ReadBAM()
	if err != nil {
		t.Fatalf("ReadBAM failed: %v", err)
	}
	pop := 0
	for tr := 1; tr <= StandardTracks; tr++ {
		for _, b := range bam.bitmap[tr-1] {
			pop += bits.OnesCount8(b)
		}
	}
	if got := bam.FreeSectors(); got != pop {
		t.Errorf("reported free count %d != bitmap population %d", got, pop)
	}
}

func TestSetDiskNameAndID(t *testing.T) {
	img := newFormattedImage(t, StandardTracks)
	bam, _ := img.ReadBAM()

	if err := bam.SetDiskName("NEW NAME"); err != nil {
		t.Fatalf("SetDiskName failed: %v", err)
	}
	if err := bam.SetDiskID("ZX"); err != nil {
		t.Fatalf("SetDiskID failed: %v", err)
	}
	if err := img.WriteBAM(bam); err != nil {
		t.Fatalf("WriteBAM failed: %v", err)
	}

	again, err := img.ReadBAM()
	if err != nil {
		t.Fatalf("ReadBAM failed: %v", err)
	}
	if got := again.DiskName(); got != "NEW NAME" {
		t.Errorf("DiskName = %q, want %q", got, "NEW NAME")
	}
	if got := again.DiskID(); got != "ZX" {
		t.Errorf("DiskID = %q, want %q", got, "ZX")
	}

	if err := bam.SetDiskName("THIS NAME IS WAY TOO LONG"); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("SetDiskName = %v, want ErrNameTooLong", err)
	}
}

func TestExtendedImageBAM(t *testing.T) {
	img := newFormattedImage(t, ExtendedTracks)
	bam, err := img.ReadBAM()
	if err != nil {
		t.Fatalf("ReadBAM failed: %v", err)
	}
	if got := bam.FreeSectors(); got != 768-2 {
		t.Errorf("FreeSectors = %d, want %d", got, 768-2)
	}
	if n, err := bam.TrackFreeCount(40); err != nil || n != 17 {
		t.Errorf("track 40 free count = %d (%v), want 17", n, err)
	}
}
