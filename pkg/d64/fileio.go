// file: pkg/d64/fileio.go

package d64

import (
	"errors"
	"fmt"
)

// InsertFile stores data as a new closed PRG file. The file's chain is
// allocated through the BAM's spiral search, the directory gains an
// entry, and the BAM sector is rewritten. A live file with the same
// name fails with ErrFileExists; scratched entries with the name do
// not count.
func (img *Image) InsertFile(name string, data []byte) error {
	bam, err := img.ReadBAM()
	if err != nil {
		return err
	}

	if _, _, err := img.FindByName(name); err == nil {
		return fmt.Errorf("%w: %q", ErrFileExists, name)
	} else if !errors.Is(err, ErrFileNotFound) {
		return err
	}

	entry := DirEntry{
		FileType: FileTypePRG,
		Blocks:   uint16(chainSectors(len(data))),
	}
	if err := entry.SetName(name); err != nil {
		return err
	}

	// WriteChain rolls itself back, but a directory failure after it
	// succeeded must also undo the payload bytes, stale free-sector
	// content included. Snapshot once and restore on that path; the
	// in-memory BAM record is simply discarded.
	snapshot := make([]byte, len(img.data))
	copy(snapshot, img.data)

	start, err := img.WriteChain(bam, data, 0)
	if err != nil {
		return err
	}
	entry.Start = start

	if _, err := img.AddEntry(bam, &entry); err != nil {
		copy(img.data, snapshot)
		return err
	}

	return img.WriteBAM(bam)
}

// ExtractFile returns the full content of the named file.
func (img *Image) ExtractFile(name string) ([]byte, error) {
	_, entry, err := img.FindByName(name)
	if err != nil {
		return nil, err
	}
	return img.ReadChain(entry.Start)
}

// ListFiles returns the live directory entries in chain order.
// Soft-deleted entries are omitted; a raw Entries scan still sees them.
func (img *Image) ListFiles() ([]DirEntry, error) {
	_, all, err := img.Entries()
	if err != nil {
		return nil, err
	}
	var live []DirEntry
	for _, e := range all {
		if !e.IsScratched() {
			live = append(live, e)
		}
	}
	return live, nil
}

// DeleteFile soft-deletes the named file: the directory slot is marked
// scratched and nothing else changes. The file's sectors stay
// allocated until PurgeFile.
func (img *Image) DeleteFile(name string) error {
	ref, _, err := img.FindByName(name)
	if err != nil {
		return err
	}
	return img.DeleteEntry(ref)
}

// PurgeFile hard-deletes the named file: the slot is scratched and
// every sector of its chain is released back to the BAM.
func (img *Image) PurgeFile(name string) error {
	bam, err := img.ReadBAM()
	if err != nil {
		return err
	}
	ref, entry, err := img.FindByName(name)
	if err != nil {
		return err
	}
	if err := img.DeleteEntry(ref); err != nil {
		return err
	}
	if _, err := img.FreeChain(bam, entry.Start); err != nil {
		return err
	}
	return img.WriteBAM(bam)
}

// TraceFile returns the sector addresses of the named file's chain in
// order.
func (img *Image) TraceFile(name string) ([]TrackSector, error) {
	_, entry, err := img.FindByName(name)
	if err != nil {
		return nil, err
	}
	return img.TraceChain(entry.Start)
}
