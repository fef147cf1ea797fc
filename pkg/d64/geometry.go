// file: pkg/d64/geometry.go

package d64

const (
	BytesPerSector     = 256
	DataBytesPerSector = 254

	DirectoryTrack  = 18
	BAMSector       = 0
	DirectorySector = 1

	StandardTracks = 35
	ExtendedTracks = 40
)

// zone describes one band of tracks sharing a sector count. The 1541
// packs more sectors onto the outer tracks.
type zone struct {
	trackMin, trackMax, sectorCount int
	sectorOffset                    int // sectors preceding trackMin
}

var zones = [4]zone{
	{1, 17, 21, 0},
	{18, 24, 19, 357},
	{25, 30, 18, 490},
	{31, ExtendedTracks, 17, 598},
}

func lookupZone(track int) (zone, bool) {
	for _, z := range zones {
		if z.trackMin <= track && track <= z.trackMax {
			return z, true
		}
	}
	return zone{}, false
}

// SectorsPerTrack returns the number of sectors on the given 1-based
// track, or ErrInvalidGeometry for tracks outside 1..40.
func SectorsPerTrack(track int) (int, error) {
	z, ok := lookupZone(track)
	if !ok {
		return 0, ErrInvalidGeometry
	}
	return z.sectorCount, nil
}

// TotalSectors returns the sector count of an image with the given
// number of tracks. Only complete zones up to trackCount are summed.
func TotalSectors(trackCount int) int {
	total := 0
	for t := 1; t <= trackCount; t++ {
		z, ok := lookupZone(t)
		if !ok {
			break
		}
		total += z.sectorCount
	}
	return total
}

// TrackSector addresses one 256-byte sector. Tracks are 1-based,
// sectors 0-based.
type TrackSector struct {
	Track  int
	Sector int
}

// IsNull reports whether the address is the chain terminator (track 0).
func (ts TrackSector) IsNull() bool {
	return ts.Track == 0
}

// Offset returns the linear byte offset of ts within an image of
// trackCount tracks. The mapping is monotonic in (track, sector) order
// and invertible.
func (ts TrackSector) Offset(trackCount int) (int, error) {
	if ts.Track < 1 || ts.Track > trackCount {
		return 0, ErrInvalidGeometry
	}
	z, ok := lookupZone(ts.Track)
	if !ok {
		return 0, ErrInvalidGeometry
	}
	if ts.Sector < 0 || ts.Sector >= z.sectorCount {
		return 0, ErrInvalidGeometry
	}
	sectors := z.sectorOffset + (ts.Track-z.trackMin)*z.sectorCount + ts.Sector
	return sectors * BytesPerSector, nil
}

// Valid reports whether ts addresses a real sector on a disk with
// trackCount tracks.
func (ts TrackSector) Valid(trackCount int) bool {
	_, err := ts.Offset(trackCount)
	return err == nil
}
