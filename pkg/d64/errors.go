// file: pkg/d64/errors.go

package d64

import "errors"

var (
	ErrInvalidGeometry      = errors.New("invalid track or sector")
	ErrInvalidImageSize     = errors.New("invalid image size")
	ErrInvalidFormat        = errors.New("unrecognized disk format")
	ErrCorruptChain         = errors.New("corrupt sector chain")
	ErrCorruptDirectory     = errors.New("corrupt directory chain")
	ErrDiskFull             = errors.New("disk is full")
	ErrAlreadyAllocated     = errors.New("sector already allocated")
	ErrAlreadyFree          = errors.New("sector already free")
	ErrFileNotFound         = errors.New("file not found")
	ErrFileExists           = errors.New("file already exists")
	ErrNameTooLong          = errors.New("name too long")
	ErrUnsupportedCharacter = errors.New("unsupported character in name")
)
