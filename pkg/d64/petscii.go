// file: pkg/d64/petscii.go

package d64

const (
	// NameLength is the fixed on-disk length of file and disk names.
	NameLength = 16

	// padByte is a shifted space; unused name bytes are filled with it.
	padByte = 0xA0
)

// ASCIIToPETSCII converts one ASCII character to its PETSCII byte.
// The supported set is space through underscore (uppercase letters,
// digits and common punctuation); lowercase letters fold to uppercase.
func ASCIIToPETSCII(c byte) (byte, error) {
	switch {
	case c >= 0x20 && c <= 0x5F:
		return c, nil
	case c >= 'a' && c <= 'z':
		return c - 0x20, nil
	default:
		return 0, ErrUnsupportedCharacter
	}
}

// PETSCIIToASCII converts one PETSCII byte to ASCII. Shifted letters
// (0xC1-0xDA) fold down to their unshifted forms; anything outside the
// printable range becomes '?'.
func PETSCIIToASCII(c byte) byte {
	switch {
	case c >= 0x20 && c <= 0x5F:
		return c
	case c >= 0xC1 && c <= 0xDA:
		return c - 0x80
	default:
		return '?'
	}
}

// EncodeName converts a host string to a fixed 16-byte on-disk name,
// right-padded with 0xA0. Names longer than 16 visible characters fail
// with ErrNameTooLong; characters outside the supported set fail with
// ErrUnsupportedCharacter.
func EncodeName(name string) ([NameLength]byte, error) {
	var out [NameLength]byte
	if len(name) > NameLength {
		return out, ErrNameTooLong
	}
	for i := range out {
		out[i] = padByte
	}
	for i := 0; i < len(name); i++ {
		b, err := ASCIIToPETSCII(name[i])
		if err != nil {
			return out, err
		}
		out[i] = b
	}
	return out, nil
}

// DecodeName converts a 16-byte on-disk name back to a host string,
// trimming trailing 0xA0 padding and stray NUL bytes.
func DecodeName(raw []byte) string {
	end := len(raw)
	for end > 0 && (raw[end-1] == padByte || raw[end-1] == 0x00) {
		end--
	}
	out := make([]byte, end)
	for i := 0; i < end; i++ {
		out[i] = PETSCIIToASCII(raw[i])
	}
	return string(out)
}
