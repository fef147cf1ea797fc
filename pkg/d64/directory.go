// file: pkg/d64/directory.go

package d64

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// DirEntrySize is the fixed size of one directory slot; eight of
	// them fill a directory sector.
	DirEntrySize     = 32
	EntriesPerSector = BytesPerSector / DirEntrySize

	// File type bytes. Bit 7 marks the file as closed; 0x00 is a
	// scratched (deleted or never-used) slot.
	FileTypeScratched = 0x00
	FileTypeDEL       = 0x80
	FileTypeSEQ       = 0x81
	FileTypePRG       = 0x82
	FileTypeUSR       = 0x83
	FileTypeREL       = 0x84
)

// DirEntry is one 32-byte directory slot decoded: the file type byte,
// the first sector of the file's chain, the padded PETSCII name and
// the size in sectors.
type DirEntry struct {
	FileType byte
	Start    TrackSector
	RawName  [NameLength]byte
	Blocks   uint16
}

// Name returns the decoded, unpadded filename.
func (e *DirEntry) Name() string {
	return DecodeName(e.RawName[:])
}

// SetName stores an encoded, 0xA0-padded filename.
func (e *DirEntry) SetName(name string) error {
	enc, err := EncodeName(name)
	if err != nil {
		return err
	}
	e.RawName = enc
	return nil
}

// IsScratched reports whether the slot is unused or soft-deleted.
func (e *DirEntry) IsScratched() bool {
	return e.FileType == FileTypeScratched
}

// TypeString returns the conventional three-letter file type name.
func (e *DirEntry) TypeString() string {
	switch e.FileType & 0x07 {
	case 0:
		return "DEL"
	case 1:
		return "SEQ"
	case 2:
		return "PRG"
	case 3:
		return "USR"
	case 4:
		return "REL"
	default:
		return "???"
	}
}

// decodeEntry reads one 32-byte slot. Bytes 0-1 belong to the sector's
// chain link and are ignored here.
func decodeEntry(slot []byte) DirEntry {
	var e DirEntry
	e.FileType = slot[2]
	e.Start = TrackSector{int(slot[3]), int(slot[4])}
	copy(e.RawName[:], slot[5:21])
	e.Blocks = binary.LittleEndian.Uint16(slot[30:32])
	return e
}

// encodeEntry writes the entry fields into a 32-byte slot, leaving the
// two link bytes alone.
func encodeEntry(slot []byte, e *DirEntry) {
	for i := 2; i < DirEntrySize; i++ {
		slot[i] = 0
	}
	slot[2] = e.FileType
	slot[3] = byte(e.Start.Track)
	slot[4] = byte(e.Start.Sector)
	copy(slot[5:21], e.RawName[:])
	binary.LittleEndian.PutUint16(slot[30:32], e.Blocks)
}

// SlotRef addresses one directory slot: the sector holding it and the
// slot index 0-7 within that sector.
type SlotRef struct {
	TrackSector
	Index int
}

// DirIterator walks the directory's sector chain slot by slot. It
// applies the same cycle and bounds guards as ChainReader, surfacing
// ErrCorruptDirectory on violation. Scratched slots are included; it
// is the caller's job to skip them where deleted files count as
// absent.
type DirIterator struct {
	img     *Image
	current TrackSector
	slot    int
	visited map[TrackSector]bool
	done    bool
}

// NewDirIterator starts an iterator at the directory's reserved root
// sector.
func (img *Image) NewDirIterator() *DirIterator {
	return &DirIterator{
		img:     img,
		current: TrackSector{DirectoryTrack, DirectorySector},
		visited: make(map[TrackSector]bool),
	}
}

// Next returns the next slot and its decoded entry, or io.EOF after
// the last slot of the terminal directory sector.
func (it *DirIterator) Next() (SlotRef, DirEntry, error) {
	for {
		if it.done {
			return SlotRef{}, DirEntry{}, io.EOF
		}
		if it.slot == 0 {
			if it.visited[it.current] {
				return SlotRef{}, DirEntry{}, fmt.Errorf("%w: revisited track %d sector %d",
					ErrCorruptDirectory, it.current.Track, it.current.Sector)
			}
			it.visited[it.current] = true
		}

		sec, err := it.img.sector(it.current)
		if err != nil {
			return SlotRef{}, DirEntry{}, fmt.Errorf("%w: %v", ErrCorruptDirectory, err)
		}

		if it.slot < EntriesPerSector {
			ref := SlotRef{it.current, it.slot}
			entry := decodeEntry(sec[it.slot*DirEntrySize : (it.slot+1)*DirEntrySize])
			it.slot++
			return ref, entry, nil
		}

		next := TrackSector{int(sec[0]), int(sec[1])}
		if next.IsNull() {
			it.done = true
			continue
		}
		if !next.Valid(it.img.tracks) {
			return SlotRef{}, DirEntry{}, fmt.Errorf("%w: link to track %d sector %d",
				ErrCorruptDirectory, next.Track, next.Sector)
		}
		it.current = next
		it.slot = 0
	}
}

// Entries returns every directory slot in chain order, scratched slots
// included. It is a raw scan; listing and lookup layer their own
// filtering on top.
func (img *Image) Entries() ([]SlotRef, []DirEntry, error) {
	it := img.NewDirIterator()
	var refs []SlotRef
	var entries []DirEntry
	for {
		ref, e, err := it.Next()
		if err == io.EOF {
			return refs, entries, nil
		}
		if err != nil {
			return nil, nil, err
		}
		refs = append(refs, ref)
		entries = append(entries, e)
	}
}

// FindByName scans the directory for the first live entry whose padded
// name matches exactly. Scratched entries are skipped, so a
// soft-deleted file counts as absent. Duplicate names are legal on
// disk; the first match wins. A miss fails with ErrFileNotFound.
func (img *Image) FindByName(name string) (SlotRef, DirEntry, error) {
	want, err := EncodeName(name)
	if err != nil {
		return SlotRef{}, DirEntry{}, err
	}
	it := img.NewDirIterator()
	for {
		ref, e, err := it.Next()
		if err == io.EOF {
			return SlotRef{}, DirEntry{}, fmt.Errorf("%w: %q", ErrFileNotFound, name)
		}
		if err != nil {
			return SlotRef{}, DirEntry{}, err
		}
		if !e.IsScratched() && e.RawName == want {
			return ref, e, nil
		}
	}
}

// readSlot returns the decoded entry stored at ref.
func (img *Image) readSlot(ref SlotRef) (DirEntry, error) {
	sec, err := img.sector(ref.TrackSector)
	if err != nil {
		return DirEntry{}, err
	}
	return decodeEntry(sec[ref.Index*DirEntrySize : (ref.Index+1)*DirEntrySize]), nil
}

// writeSlot stores entry at ref.
func (img *Image) writeSlot(ref SlotRef, entry *DirEntry) error {
	sec, err := img.sector(ref.TrackSector)
	if err != nil {
		return err
	}
	encodeEntry(sec[ref.Index*DirEntrySize:(ref.Index+1)*DirEntrySize], entry)
	return nil
}

// AddEntry writes entry into the first scratched directory slot,
// extending the directory's own chain by one sector (on the directory
// track when possible) if every existing slot is live. Returns the
// slot the entry landed in.
func (img *Image) AddEntry(bam *BAM, entry *DirEntry) (SlotRef, error) {
	it := img.NewDirIterator()
	last := TrackSector{DirectoryTrack, DirectorySector}
	for {
		ref, e, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return SlotRef{}, err
		}
		last = ref.TrackSector
		if e.IsScratched() {
			if err := img.writeSlot(ref, entry); err != nil {
				return SlotRef{}, err
			}
			return ref, nil
		}
	}

	// Directory is full: grow the chain by one sector near its home
	// track and link the tail sector to it.
	next, err := bam.FindFreeSector(DirectoryTrack)
	if err != nil {
		return SlotRef{}, err
	}
	if err := bam.MarkUsed(next); err != nil {
		return SlotRef{}, err
	}

	fresh := make([]byte, BytesPerSector)
	fresh[0] = 0
	fresh[1] = 0xFF
	if err := img.WriteSector(next, fresh); err != nil {
		return SlotRef{}, err
	}

	tail, err := img.sector(last)
	if err != nil {
		return SlotRef{}, err
	}
	tail[0] = byte(next.Track)
	tail[1] = byte(next.Sector)

	ref := SlotRef{next, 0}
	if err := img.writeSlot(ref, entry); err != nil {
		return SlotRef{}, err
	}
	return ref, nil
}

// DeleteEntry soft-deletes the slot: only the file type byte is
// cleared to the scratched sentinel. The name, start pointer and block
// count stay readable by a raw Entries scan, and the file's sector
// chain keeps its BAM allocation until an explicit purge.
func (img *Image) DeleteEntry(ref SlotRef) error {
	sec, err := img.sector(ref.TrackSector)
	if err != nil {
		return err
	}
	if ref.Index < 0 || ref.Index >= EntriesPerSector {
		return ErrInvalidGeometry
	}
	sec[ref.Index*DirEntrySize+2] = FileTypeScratched
	return nil
}
