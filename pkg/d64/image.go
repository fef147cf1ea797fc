// file: pkg/d64/image.go

package d64

import (
	"fmt"
	"os"
)

// Image is the in-memory byte buffer of one D64 disk image. Its length
// always equals TotalSectors(tracks) * 256. All engine operations
// borrow the image through a method call; nothing retains it between
// calls.
type Image struct {
	data   []byte
	tracks int
}

// NewImage creates a blank (all-zero) image with 35 or 40 tracks.
// A blank image has no BAM yet; call Format before using it.
func NewImage(tracks int) (*Image, error) {
	if tracks != StandardTracks && tracks != ExtendedTracks {
		return nil, fmt.Errorf("%w: %d tracks", ErrInvalidImageSize, tracks)
	}
	return &Image{
		data:   make([]byte, TotalSectors(tracks)*BytesPerSector),
		tracks: tracks,
	}, nil
}

// FromBytes wraps raw image data, deriving the track count from its
// length. The buffer is owned by the returned Image.
func FromBytes(data []byte) (*Image, error) {
	switch len(data) {
	case TotalSectors(StandardTracks) * BytesPerSector:
		return &Image{data: data, tracks: StandardTracks}, nil
	case TotalSectors(ExtendedTracks) * BytesPerSector:
		return &Image{data: data, tracks: ExtendedTracks}, nil
	default:
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidImageSize, len(data))
	}
}

// LoadFromFile reads a raw image file from the host filesystem.
func LoadFromFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	img, err := FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// SaveToFile writes the raw image bytes back to the host filesystem.
func (img *Image) SaveToFile(path string) error {
	if err := os.WriteFile(path, img.data, 0644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}

// Tracks returns the image's declared track count (35 or 40).
func (img *Image) Tracks() int {
	return img.tracks
}

// Size returns the image size in bytes.
func (img *Image) Size() int {
	return len(img.data)
}

// Bytes exposes the raw buffer. Callers must not resize it.
func (img *Image) Bytes() []byte {
	return img.data
}

// sector returns the live 256-byte slice backing one sector.
func (img *Image) sector(ts TrackSector) ([]byte, error) {
	off, err := ts.Offset(img.tracks)
	if err != nil {
		return nil, err
	}
	return img.data[off : off+BytesPerSector], nil
}

// ReadSector returns a copy of the sector at ts.
func (img *Image) ReadSector(ts TrackSector) ([]byte, error) {
	sec, err := img.sector(ts)
	if err != nil {
		return nil, err
	}
	out := make([]byte, BytesPerSector)
	copy(out, sec)
	return out, nil
}

// WriteSector overwrites the sector at ts. Short data is zero-padded
// to a full sector; data longer than 256 bytes is rejected.
func (img *Image) WriteSector(ts TrackSector, data []byte) error {
	if len(data) > BytesPerSector {
		return fmt.Errorf("%w: sector data is %d bytes", ErrInvalidGeometry, len(data))
	}
	sec, err := img.sector(ts)
	if err != nil {
		return err
	}
	copy(sec, data)
	for i := len(data); i < BytesPerSector; i++ {
		sec[i] = 0
	}
	return nil
}

// Format erases the image and lays down a fresh filesystem: an empty
// BAM with every sector free except the BAM and directory-header
// sectors, an empty directory sector, and the given disk name and id.
func (img *Image) Format(name, id string) error {
	if len(id) != 2 {
		return fmt.Errorf("%w: disk id must be 2 characters", ErrUnsupportedCharacter)
	}

	for i := range img.data {
		img.data[i] = 0
	}

	bam := NewBAM(img.tracks)
	if err := bam.SetDiskName(name); err != nil {
		return err
	}
	if err := bam.SetDiskID(id); err != nil {
		return err
	}
	if err := bam.MarkUsed(TrackSector{DirectoryTrack, BAMSector}); err != nil {
		return err
	}
	if err := bam.MarkUsed(TrackSector{DirectoryTrack, DirectorySector}); err != nil {
		return err
	}
	if err := img.WriteBAM(bam); err != nil {
		return err
	}

	// Empty directory header: terminal link with the conventional 0xFF
	// byte-count marker.
	dir := make([]byte, BytesPerSector)
	dir[0] = 0
	dir[1] = 0xFF
	return img.WriteSector(TrackSector{DirectoryTrack, DirectorySector}, dir)
}
