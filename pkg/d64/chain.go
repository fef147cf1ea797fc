// file: pkg/d64/chain.go

package d64

import (
	"fmt"
	"io"
)

// ChainReader walks a linked sector chain lazily, one sector payload at
// a time. Every visited (track, sector) is recorded and a revisit fails
// with ErrCorruptChain; a link outside geometry bounds fails with
// ErrInvalidGeometry. Readers are restartable via Reset.
type ChainReader struct {
	img     *Image
	start   TrackSector
	current TrackSector
	visited map[TrackSector]bool
	done    bool
}

// NewChainReader starts a reader at the first sector of a chain.
func (img *Image) NewChainReader(start TrackSector) *ChainReader {
	return &ChainReader{
		img:     img,
		start:   start,
		current: start,
		visited: make(map[TrackSector]bool),
	}
}

// Reset rewinds the reader to the start of the chain.
func (r *ChainReader) Reset() {
	r.current = r.start
	r.visited = make(map[TrackSector]bool)
	r.done = false
}

// Position returns the address of the sector the next call to Next will
// deliver. After the terminal sector it returns the null address.
func (r *ChainReader) Position() TrackSector {
	if r.done {
		return TrackSector{}
	}
	return r.current
}

// Next returns the payload of the next sector in the chain, up to 254
// bytes. The terminal sector's declared byte count truncates its
// payload; a declared count past 254 fails with ErrCorruptChain. At
// the end of the chain Next returns io.EOF.
func (r *ChainReader) Next() ([]byte, error) {
	if r.done {
		return nil, io.EOF
	}
	if r.visited[r.current] {
		return nil, fmt.Errorf("%w: revisited track %d sector %d",
			ErrCorruptChain, r.current.Track, r.current.Sector)
	}
	r.visited[r.current] = true

	sec, err := r.img.sector(r.current)
	if err != nil {
		return nil, err
	}

	next := TrackSector{int(sec[0]), int(sec[1])}
	if next.IsNull() {
		count := int(sec[1])
		if count > DataBytesPerSector {
			return nil, fmt.Errorf("%w: terminal byte count %d at track %d sector %d",
				ErrCorruptChain, count, r.current.Track, r.current.Sector)
		}
		r.done = true
		return sec[2 : 2+count], nil
	}
	if !next.Valid(r.img.tracks) {
		return nil, fmt.Errorf("%w: link to track %d sector %d",
			ErrInvalidGeometry, next.Track, next.Sector)
	}
	r.current = next
	return sec[2 : 2+DataBytesPerSector], nil
}

// ReadChain follows the chain from start and concatenates every
// sector's payload.
func (img *Image) ReadChain(start TrackSector) ([]byte, error) {
	r := img.NewChainReader(start)
	var out []byte
	for {
		chunk, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
}

// TraceChain returns the (track, sector) addresses of every sector in
// the chain, in order, with the same corruption guards as reading.
func (img *Image) TraceChain(start TrackSector) ([]TrackSector, error) {
	r := img.NewChainReader(start)
	var out []TrackSector
	for {
		pos := r.Position()
		if _, err := r.Next(); err == io.EOF {
			return out, nil
		} else if err != nil {
			return nil, err
		}
		out = append(out, pos)
	}
}

// chainSectors returns how many sectors a payload occupies. A chain is
// never empty: a zero-length payload still takes one sector holding
// zero valid bytes.
func chainSectors(size int) int {
	if size == 0 {
		return 1
	}
	return (size + DataBytesPerSector - 1) / DataBytesPerSector
}

// WriteChain stores payload as a fresh sector chain, allocating from
// bam near the given track hint (0 means near the directory). All
// sectors are reserved before any byte of the image changes; if the
// disk fills up partway the reserved sectors are released again and
// the image is left byte-identical to its pre-call state.
func (img *Image) WriteChain(bam *BAM, payload []byte, nearTrack int) (TrackSector, error) {
	needed := chainSectors(len(payload))

	allocated := make([]TrackSector, 0, needed)
	release := func() {
		for _, ts := range allocated {
			// Cannot fail: every sector in the list was just marked used.
			_ = bam.MarkFree(ts)
		}
	}

	near := nearTrack
	for i := 0; i < needed; i++ {
		ts, err := bam.FindFreeSector(near)
		if err != nil {
			release()
			return TrackSector{}, err
		}
		if err := bam.MarkUsed(ts); err != nil {
			release()
			return TrackSector{}, err
		}
		allocated = append(allocated, ts)
		near = ts.Track
	}

	for i, ts := range allocated {
		sec, err := img.sector(ts)
		if err != nil {
			release()
			return TrackSector{}, err
		}
		for j := range sec {
			sec[j] = 0
		}

		from := i * DataBytesPerSector
		to := from + DataBytesPerSector
		if to > len(payload) {
			to = len(payload)
		}
		if i == len(allocated)-1 {
			sec[0] = 0
			sec[1] = byte(to - from)
		} else {
			sec[0] = byte(allocated[i+1].Track)
			sec[1] = byte(allocated[i+1].Sector)
		}
		copy(sec[2:], payload[from:to])
	}

	return allocated[0], nil
}

// FreeChain walks the chain from start and releases every sector back
// to the BAM. It returns the number of sectors freed. The chain is
// traced in full before anything is released, so a corrupt chain frees
// nothing.
func (img *Image) FreeChain(bam *BAM, start TrackSector) (int, error) {
	sectors, err := img.TraceChain(start)
	if err != nil {
		return 0, err
	}
	for i, ts := range sectors {
		if err := bam.MarkFree(ts); err != nil {
			return i, err
		}
	}
	return len(sectors), nil
}
