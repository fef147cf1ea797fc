// file: pkg/d64/diskcheck_test.go

package d64

import (
	"errors"
	"testing"
)

func TestDiskCheckCleanImage(t *testing.T) {
	img := newFormattedImage(t, StandardTracks)
	if err := img.DiskCheck(); err != nil {
		t.Errorf("DiskCheck on a fresh image failed: %v", err)
	}

	for _, name := range []string{"ONE", "TWO", "THREE"} {
		if err := img.InsertFile(name, patternBytes(500)); err != nil {
			t.Fatalf("InsertFile(%s) failed: %v", name, err)
		}
	}
	if err := img.DiskCheck(); err != nil {
		t.Errorf("DiskCheck after inserts failed: %v", err)
	}
}

func TestDiskCheckSoftDeleteIsLegal(t *testing.T) {
	img := newFormattedImage(t, StandardTracks)
	if err := img.InsertFile("SOFT", patternBytes(500)); err != nil {
		t.Fatalf("InsertFile failed: %v", err)
	}
	if err := img.DeleteFile("SOFT"); err != nil {
		t.Fatalf("DeleteFile failed: %v", err)
	}
	if err := img.DiskCheck(); err != nil {
		t.Errorf("DiskCheck after soft delete failed: %v", err)
	}
}

func TestDiskCheckCountMismatch(t *testing.T) {
	img := newFormattedImage(t, StandardTracks)

	// Corrupt a free-count byte without touching the bitmap.
	sec, err := img.sector(TrackSector{DirectoryTrack, BAMSector})
	if err != nil {
		t.Fatalf("sector failed: %v", err)
	}
	sec[4]-- // track 1 free count

	if err := img.DiskCheck(); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("DiskCheck = %v, want ErrInvalidFormat", err)
	}
}

func TestDiskCheckChainIntoFreeSector(t *testing.T) {
	img := newFormattedImage(t, StandardTracks)
	if err := img.InsertFile("FILE", patternBytes(500)); err != nil {
		t.Fatalf("InsertFile failed: %v", err)
	}

	// Free one of the file's sectors behind the directory's back.
	sectors, err := img.TraceFile("FILE")
	if err != nil {
		t.Fatalf("TraceFile failed: %v", err)
	}
	bam, _ := img.ReadBAM()
	if err := bam.MarkFree(sectors[1]); err != nil {
		t.Fatalf("MarkFree failed: %v", err)
	}
	if err := img.WriteBAM(bam); err != nil {
		t.Fatalf("WriteBAM failed: %v", err)
	}

	if err := img.DiskCheck(); !errors.Is(err, ErrCorruptChain) {
		t.Errorf("DiskCheck = %v, want ErrCorruptChain", err)
	}
}

func TestDiskCheckSharedSector(t *testing.T) {
	img := newFormattedImage(t, StandardTracks)
	if err := img.InsertFile("A", patternBytes(500)); err != nil {
		t.Fatalf("InsertFile failed: %v", err)
	}
	if err := img.InsertFile("B", patternBytes(500)); err != nil {
		t.Fatalf("InsertFile failed: %v", err)
	}

	// Point B's entry at A's chain.
	refB, entryB, err := img.FindByName("B")
	if err != nil {
		t.Fatalf("FindByName failed: %v", err)
	}
	_, entryA, err := img.FindByName("A")
	if err != nil {
		t.Fatalf("FindByName failed: %v", err)
	}
	entryB.Start = entryA.Start
	if err := img.writeSlot(refB, &entryB); err != nil {
		t.Fatalf("writeSlot failed: %v", err)
	}

	if err := img.DiskCheck(); !errors.Is(err, ErrCorruptChain) {
		t.Errorf("DiskCheck = %v, want ErrCorruptChain", err)
	}
}

func TestDiskCheckUnformattedImage(t *testing.T) {
	img, err := NewImage(StandardTracks)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	if err := img.DiskCheck(); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("DiskCheck on blank image = %v, want ErrInvalidFormat", err)
	}
}
