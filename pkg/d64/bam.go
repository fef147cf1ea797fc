// file: pkg/d64/bam.go

package d64

import "fmt"

const (
	// dosFormatMarker identifies a 1541/4040-format BAM ('A').
	dosFormatMarker = 0x41

	// Interleave is the sector stride used when offering successive
	// sectors on the same track, approximating the head-settling
	// layout real drives produce.
	Interleave = 10

	bamDiskNameOffset = 144
	bamDiskIDOffset   = 162

	// Tracks 36-40 of extended images keep their BAM entries in the
	// SPEED DOS extension area.
	bamExtendedOffset = 0xAC
)

// BAM holds the parsed Block Availability Map of one image: a per-track
// free count plus bitmap, and the disk's name, id and format marker.
// Mutations happen on the parsed record; WriteBAM persists it.
type BAM struct {
	tracks    int
	freeCount [ExtendedTracks]byte
	bitmap    [ExtendedTracks][3]byte
	diskName  [NameLength]byte
	diskID    [2]byte
	dosType   byte

	// lastOffered remembers the previous sector handed out per track
	// so the interleaved walk continues instead of restarting.
	lastOffered map[int]int
}

// NewBAM builds a fresh BAM with every sector on every track free.
func NewBAM(tracks int) *BAM {
	bam := &BAM{tracks: tracks, dosType: dosFormatMarker}
	for t := 1; t <= tracks; t++ {
		n, _ := SectorsPerTrack(t)
		bam.freeCount[t-1] = byte(n)
		for s := 0; s < n; s++ {
			bam.bitmap[t-1][s/8] |= 1 << (s % 8)
		}
	}
	for i := range bam.diskName {
		bam.diskName[i] = padByte
	}
	bam.diskID = [2]byte{padByte, padByte}
	return bam
}

// trackEntryOffset returns the byte offset of a track's 4-byte BAM
// entry within the BAM sector.
func trackEntryOffset(track int) int {
	if track > StandardTracks {
		return bamExtendedOffset + (track-StandardTracks-1)*4
	}
	return 4 + (track-1)*4
}

// ReadBAM parses the BAM sector at 18/0. An unrecognized format marker
// fails with ErrInvalidFormat.
func (img *Image) ReadBAM() (*BAM, error) {
	sec, err := img.sector(TrackSector{DirectoryTrack, BAMSector})
	if err != nil {
		return nil, err
	}
	if sec[2] != dosFormatMarker {
		return nil, fmt.Errorf("%w: marker 0x%02X", ErrInvalidFormat, sec[2])
	}

	bam := &BAM{tracks: img.tracks, dosType: sec[2]}
	for t := 1; t <= img.tracks; t++ {
		base := trackEntryOffset(t)
		bam.freeCount[t-1] = sec[base]
		copy(bam.bitmap[t-1][:], sec[base+1:base+4])
	}
	copy(bam.diskName[:], sec[bamDiskNameOffset:bamDiskNameOffset+NameLength])
	copy(bam.diskID[:], sec[bamDiskIDOffset:bamDiskIDOffset+2])
	return bam, nil
}

// WriteBAM serializes the record back into the BAM sector.
func (img *Image) WriteBAM(bam *BAM) error {
	sec, err := img.sector(TrackSector{DirectoryTrack, BAMSector})
	if err != nil {
		return err
	}
	for i := range sec {
		sec[i] = 0
	}
	sec[0] = DirectoryTrack
	sec[1] = DirectorySector
	sec[2] = bam.dosType
	for t := 1; t <= img.tracks; t++ {
		base := trackEntryOffset(t)
		sec[base] = bam.freeCount[t-1]
		copy(sec[base+1:base+4], bam.bitmap[t-1][:])
	}
	copy(sec[bamDiskNameOffset:], bam.diskName[:])
	copy(sec[bamDiskIDOffset:], bam.diskID[:])
	return nil
}

func (bam *BAM) checkBounds(ts TrackSector) (int, error) {
	if ts.Track < 1 || ts.Track > bam.tracks {
		return 0, ErrInvalidGeometry
	}
	n, err := SectorsPerTrack(ts.Track)
	if err != nil {
		return 0, err
	}
	if ts.Sector < 0 || ts.Sector >= n {
		return 0, ErrInvalidGeometry
	}
	return n, nil
}

// IsFree reports whether the sector at ts is marked free.
func (bam *BAM) IsFree(ts TrackSector) (bool, error) {
	if _, err := bam.checkBounds(ts); err != nil {
		return false, err
	}
	bit := byte(1) << (ts.Sector % 8)
	return bam.bitmap[ts.Track-1][ts.Sector/8]&bit != 0, nil
}

// MarkUsed clears the free bit for ts and decrements the track's free
// count. Marking an already-used sector fails with ErrAlreadyAllocated
// and leaves the record untouched; this is the guard against handing
// the same sector to two chains.
func (bam *BAM) MarkUsed(ts TrackSector) error {
	if _, err := bam.checkBounds(ts); err != nil {
		return err
	}
	bit := byte(1) << (ts.Sector % 8)
	if bam.bitmap[ts.Track-1][ts.Sector/8]&bit == 0 {
		return fmt.Errorf("%w: track %d sector %d", ErrAlreadyAllocated, ts.Track, ts.Sector)
	}
	// A free bit with a zero stored count only happens on corrupt
	// input; decrementing would wrap the count byte to 255.
	if bam.freeCount[ts.Track-1] == 0 {
		return fmt.Errorf("%w: track %d free count 0 with free bits set", ErrInvalidFormat, ts.Track)
	}
	bam.bitmap[ts.Track-1][ts.Sector/8] &^= bit
	bam.freeCount[ts.Track-1]--
	return nil
}

// MarkFree sets the free bit for ts and increments the track's free
// count. Freeing an already-free sector fails with ErrAlreadyFree.
func (bam *BAM) MarkFree(ts TrackSector) error {
	if _, err := bam.checkBounds(ts); err != nil {
		return err
	}
	bit := byte(1) << (ts.Sector % 8)
	if bam.bitmap[ts.Track-1][ts.Sector/8]&bit != 0 {
		return fmt.Errorf("%w: track %d sector %d", ErrAlreadyFree, ts.Track, ts.Sector)
	}
	bam.bitmap[ts.Track-1][ts.Sector/8] |= bit
	bam.freeCount[ts.Track-1]++
	return nil
}

// TrackFreeCount returns the stored free-sector count for one track.
func (bam *BAM) TrackFreeCount(track int) (int, error) {
	if track < 1 || track > bam.tracks {
		return 0, ErrInvalidGeometry
	}
	return int(bam.freeCount[track-1]), nil
}

// FreeSectors returns the total free-sector count across all tracks.
func (bam *BAM) FreeSectors() int {
	total := 0
	for t := 1; t <= bam.tracks; t++ {
		total += int(bam.freeCount[t-1])
	}
	return total
}

// Tracks returns the track count the BAM was parsed for.
func (bam *BAM) Tracks() int {
	return bam.tracks
}

// DiskName returns the decoded disk name.
func (bam *BAM) DiskName() string {
	return DecodeName(bam.diskName[:])
}

// SetDiskName stores a new disk name, PETSCII-encoded and 0xA0-padded.
func (bam *BAM) SetDiskName(name string) error {
	enc, err := EncodeName(name)
	if err != nil {
		return err
	}
	bam.diskName = enc
	return nil
}

// DiskID returns the decoded two-character disk id.
func (bam *BAM) DiskID() string {
	return DecodeName(bam.diskID[:])
}

// SetDiskID stores a new two-character disk id.
func (bam *BAM) SetDiskID(id string) error {
	if len(id) > 2 {
		return ErrNameTooLong
	}
	enc := [2]byte{padByte, padByte}
	for i := 0; i < len(id); i++ {
		b, err := ASCIIToPETSCII(id[i])
		if err != nil {
			return err
		}
		enc[i] = b
	}
	bam.diskID = enc
	return nil
}

// spiralTracks yields candidate tracks starting at center and probing
// outward, alternating toward higher and lower track numbers. This
// biases allocation near the directory to cut average seek distance.
func (bam *BAM) spiralTracks(center int) []int {
	if center < 1 || center > bam.tracks {
		center = DirectoryTrack
		if center > bam.tracks {
			center = bam.tracks
		}
	}
	order := make([]int, 0, bam.tracks)
	order = append(order, center)
	for d := 1; len(order) < bam.tracks; d++ {
		if center+d <= bam.tracks {
			order = append(order, center+d)
		}
		if center-d >= 1 {
			order = append(order, center-d)
		}
		if center+d > bam.tracks && center-d < 1 {
			break
		}
	}
	return order
}

// findOnTrack offers the next free sector on one track, walking with
// the interleave stride from the previously offered sector and falling
// back to a linear scan once the stride walk has covered the track.
func (bam *BAM) findOnTrack(track int) (int, bool) {
	n, err := SectorsPerTrack(track)
	if err != nil || bam.freeCount[track-1] == 0 {
		return 0, false
	}
	if bam.lastOffered == nil {
		bam.lastOffered = make(map[int]int)
	}

	start, seen := bam.lastOffered[track]
	pos := 0
	if seen {
		pos = (start + Interleave) % n
	}
	for i := 0; i < n; i++ {
		if free, _ := bam.IsFree(TrackSector{track, pos}); free {
			bam.lastOffered[track] = pos
			return pos, true
		}
		pos = (pos + Interleave) % n
	}
	// The stride walk can miss sectors when the stride and the track's
	// sector count share a factor.
	for s := 0; s < n; s++ {
		if free, _ := bam.IsFree(TrackSector{track, s}); free {
			bam.lastOffered[track] = s
			return s, true
		}
	}
	return 0, false
}

// FindFreeSector locates the next sector to allocate. The track search
// spirals outward from near (or from the directory track when near is
// 0); within a track, sectors come in interleaved order. Fails with
// ErrDiskFull when no track has a free sector. The sector is only
// offered, not allocated; callers follow up with MarkUsed.
func (bam *BAM) FindFreeSector(near int) (TrackSector, error) {
	for _, t := range bam.spiralTracks(near) {
		if s, ok := bam.findOnTrack(t); ok {
			return TrackSector{t, s}, nil
		}
	}
	return TrackSector{}, ErrDiskFull
}
