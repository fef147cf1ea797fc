// file: pkg/d64/petscii_test.go

package d64

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	names := []string{
		"MYFILE",
		"HELLO, WORLD!",
		"A",
		"0123456789ABCDEF", // exactly 16 characters
		"UNDER_SCORE",
		"",
	}
	for _, name := range names {
		enc, err := EncodeName(name)
		if err != nil {
			t.Fatalf("EncodeName(%q) failed: %v", name, err)
		}
		if got := DecodeName(enc[:]); got != name {
			t.Errorf("DecodeName(EncodeName(%q)) = %q", name, got)
		}
	}
}

func TestEncodeLowercaseFolds(t *testing.T) {
	enc, err := EncodeName("myfile")
	if err != nil {
		t.Fatalf("EncodeName failed: %v", err)
	}
	if got := DecodeName(enc[:]); got != "MYFILE" {
		t.Errorf("lowercase name decoded to %q, want %q", got, "MYFILE")
	}
}

func TestEncodePadding(t *testing.T) {
	enc, err := EncodeName("AB")
	if err != nil {
		t.Fatalf("EncodeName failed: %v", err)
	}
	want := []byte{'A', 'B'}
	if !bytes.Equal(enc[:2], want) {
		t.Errorf("name bytes = %v, want %v", enc[:2], want)
	}
	for i := 2; i < NameLength; i++ {
		if enc[i] != 0xA0 {
			t.Errorf("pad byte %d = 0x%02X, want 0xA0", i, enc[i])
		}
	}
}

func TestEncodeNameTooLong(t *testing.T) {
	_, err := EncodeName("ABCDEFGHIJKLMNOPQ") // 17 characters
	if !errors.Is(err, ErrNameTooLong) {
		t.Errorf("got %v, want ErrNameTooLong", err)
	}
}

func TestEncodeUnsupportedCharacter(t *testing.T) {
	for _, name := range []string{"BAD\x01NAME", "caf\xc3\xa9", "TAB\tHERE"} {
		if _, err := EncodeName(name); !errors.Is(err, ErrUnsupportedCharacter) {
			t.Errorf("EncodeName(%q) = %v, want ErrUnsupportedCharacter", name, err)
		}
	}
}

func TestDecodeShiftedLetters(t *testing.T) {
	raw := make([]byte, NameLength)
	for i := range raw {
		raw[i] = 0xA0
	}
	raw[0] = 0xC1 // shifted 'A'
	raw[1] = 0xDA // shifted 'Z'
	if got := DecodeName(raw); got != "AZ" {
		t.Errorf("decoded shifted letters to %q, want %q", got, "AZ")
	}
}

func TestDecodeTrimsNulPadding(t *testing.T) {
	raw := []byte{'H', 'I', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	if got := DecodeName(raw); got != "HI" {
		t.Errorf("decoded %q, want %q", got, "HI")
	}
}
