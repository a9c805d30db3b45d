package tmx

import "strings"

// The high bits of a GID carry the tile's flip transform.
const (
	FlipHorizontalFlag uint32 = 0x80000000
	FlipVerticalFlag   uint32 = 0x40000000
	FlipDiagonalFlag   uint32 = 0x20000000
	RotateHexFlag      uint32 = 0x10000000
	GIDMask            uint32 = 0x0FFFFFFF
)

// FlipFlag is the decoded form of a GID's transform bits.
type FlipFlag uint8

const (
	FlipHorizontal FlipFlag = 1 << iota
	FlipVertical
	FlipDiagonal
	FlipHex

	flipFlagMax = FlipHorizontal | FlipVertical | FlipDiagonal | FlipHex
)

var flipFlagNames = [...]struct {
	flag FlipFlag
	name string
}{
	{FlipHorizontal, "horizontal"},
	{FlipVertical, "vertical"},
	{FlipDiagonal, "diagonal"},
	{FlipHex, "hex"},
}

func (ff FlipFlag) String() string {
	var names []string
	for _, fn := range flipFlagNames {
		if ff&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, "|")
}

func (ff FlipFlag) IsValid() bool {
	return ff&^flipFlagMax == 0
}

func (ff FlipFlag) Horizontal() bool { return ff&FlipHorizontal != 0 }
func (ff FlipFlag) Vertical() bool   { return ff&FlipVertical != 0 }
func (ff FlipFlag) Diagonal() bool   { return ff&FlipDiagonal != 0 }
func (ff FlipFlag) Hex() bool        { return ff&FlipHex != 0 }

// DecodeGID splits a raw GID into its tile id and flip flags.
func DecodeGID(gid uint32) (tileID uint32, flags FlipFlag) {
	tileID = gid & GIDMask
	if gid&FlipHorizontalFlag != 0 {
		flags |= FlipHorizontal
	}
	if gid&FlipVerticalFlag != 0 {
		flags |= FlipVertical
	}
	if gid&FlipDiagonalFlag != 0 {
		flags |= FlipDiagonal
	}
	if gid&RotateHexFlag != 0 {
		flags |= FlipHex
	}
	return
}
