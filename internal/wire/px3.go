package wire

import (
	"fmt"
	"sort"
)

// PX3 is the compact binary form used for outbound pixel edits.
//
// Layout: "PX3", version:1B, flags:1B, buyerLen:2B-LE, buyer, count:4B-LE,
// [paletteCount:2B-LE, palette count*3B]?, indices, colors. The flags byte's
// two low bits select the index encoding (absolute 3B vs varint delta); bit 2
// selects the color encoding (raw 24-bit vs palette byte).
const (
	px3Version = 1

	indexModeMask  = 0x03
	indexModeAbs   = 0x00
	indexModeDelta = 0x01

	flagPalette = 0x04

	maxPaletteSize = 256
	maxAbsIndex    = 1 << 24
)

var px3Magic = []byte{'P', 'X', '3'}

// EncodeEdits packs the given pixels into a PX3 payload attributed to buyer.
// Index and color encodings are chosen independently, whichever is smaller
// for this batch. Pixels are deduplicated by coordinate, last write wins.
func EncodeEdits(buyer string, pixels []Pixel, gridWidth int) ([]byte, error) {
	if gridWidth <= 0 {
		return nil, fmt.Errorf("wire: invalid grid width %d", gridWidth)
	}
	if len(buyer) > 0xFFFF {
		return nil, fmt.Errorf("wire: buyer id too long (%d bytes)", len(buyer))
	}

	byIndex := make(map[int]uint32, len(pixels))
	for _, px := range pixels {
		byIndex[Index(px.X, px.Y, gridWidth)] = px.Color & 0xFFFFFF
	}
	indices := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	count := len(indices)
	flags := byte(indexModeAbs)

	// Compare the fixed absolute encoding against the varint delta stream
	// and keep the smaller. Indices past 24 bits cannot be absolute at all.
	deltaLen := 0
	prev := 0
	for _, idx := range indices {
		deltaLen += uvarintLen(uint32(idx - prev))
		prev = idx
	}
	useDelta := deltaLen < 3*count
	if count > 0 && indices[count-1] >= maxAbsIndex {
		useDelta = true
	}
	if useDelta {
		flags = indexModeDelta
	}

	palette, paletteIndex := buildPalette(byIndex, indices)
	usePalette := palette != nil
	if usePalette {
		flags |= flagPalette
	}

	buf := make([]byte, 0, 16+len(buyer)+4*count)
	buf = append(buf, px3Magic...)
	buf = append(buf, px3Version, flags)
	buf = append(buf, byte(len(buyer)), byte(len(buyer)>>8))
	buf = append(buf, buyer...)
	buf = append(buf,
		byte(count), byte(count>>8), byte(count>>16), byte(count>>24))

	if usePalette {
		buf = append(buf, byte(len(palette)), byte(len(palette)>>8))
		for _, c := range palette {
			buf = appendColor24(buf, c)
		}
	}

	if useDelta {
		prev = 0
		for _, idx := range indices {
			buf = appendUvarint(buf, uint32(idx-prev))
			prev = idx
		}
	} else {
		for _, idx := range indices {
			buf = append(buf, byte(idx), byte(idx>>8), byte(idx>>16))
		}
	}

	for _, idx := range indices {
		c := byIndex[idx]
		if usePalette {
			buf = append(buf, paletteIndex[c])
		} else {
			buf = appendColor24(buf, c)
		}
	}
	return buf, nil
}

// buildPalette returns the distinct colors in first-seen index order, or nil
// when they exceed the one-byte palette range.
func buildPalette(byIndex map[int]uint32, indices []int) ([]uint32, map[uint32]byte) {
	palette := make([]uint32, 0, maxPaletteSize)
	lookup := make(map[uint32]byte, maxPaletteSize)
	for _, idx := range indices {
		c := byIndex[idx]
		if _, ok := lookup[c]; ok {
			continue
		}
		if len(palette) == maxPaletteSize {
			return nil, nil
		}
		lookup[c] = byte(len(palette))
		palette = append(palette, c)
	}
	return palette, lookup
}

// DecodeEdits unpacks a PX3 payload. Records with coordinates outside
// [0,width)x[0,height) are dropped silently; structural damage is an error.
func DecodeEdits(data []byte, width, height int) (string, []Pixel, error) {
	off := 0
	need := func(n int) error {
		if off+n > len(data) {
			return fmt.Errorf("wire: truncated px3 payload at offset %d", off)
		}
		return nil
	}

	if err := need(5); err != nil {
		return "", nil, err
	}
	if string(data[:3]) != string(px3Magic) {
		return "", nil, fmt.Errorf("wire: bad px3 magic %q", data[:3])
	}
	if data[3] != px3Version {
		return "", nil, fmt.Errorf("wire: unsupported px3 version %d", data[3])
	}
	flags := data[4]
	off = 5

	if err := need(2); err != nil {
		return "", nil, err
	}
	buyerLen := int(data[off]) | int(data[off+1])<<8
	off += 2
	if err := need(buyerLen); err != nil {
		return "", nil, err
	}
	buyer := string(data[off : off+buyerLen])
	off += buyerLen

	if err := need(4); err != nil {
		return "", nil, err
	}
	count := int(data[off]) | int(data[off+1])<<8 | int(data[off+2])<<16 | int(data[off+3])<<24
	off += 4
	if count < 0 {
		return "", nil, fmt.Errorf("wire: negative px3 count")
	}

	var palette []uint32
	if flags&flagPalette != 0 {
		if err := need(2); err != nil {
			return "", nil, err
		}
		paletteCount := int(data[off]) | int(data[off+1])<<8
		off += 2
		if err := need(3 * paletteCount); err != nil {
			return "", nil, err
		}
		palette = make([]uint32, paletteCount)
		for i := range palette {
			palette[i] = color24(data[off:])
			off += 3
		}
	}

	indices := make([]int, count)
	switch flags & indexModeMask {
	case indexModeAbs:
		if err := need(3 * count); err != nil {
			return "", nil, err
		}
		for i := range indices {
			indices[i] = int(data[off]) | int(data[off+1])<<8 | int(data[off+2])<<16
			off += 3
		}
	case indexModeDelta:
		prev := uint32(0)
		for i := range indices {
			d, next, err := readUvarint(data, off)
			if err != nil {
				return "", nil, err
			}
			prev += d
			indices[i] = int(prev)
			off = next
		}
	default:
		return "", nil, fmt.Errorf("wire: unknown px3 index mode %d", flags&indexModeMask)
	}

	pixels := make([]Pixel, 0, count)
	for i := 0; i < count; i++ {
		var c uint32
		if palette != nil {
			if err := need(1); err != nil {
				return "", nil, err
			}
			pi := int(data[off])
			off++
			if pi >= len(palette) {
				return "", nil, fmt.Errorf("wire: px3 palette index %d out of range", pi)
			}
			c = palette[pi]
		} else {
			if err := need(3); err != nil {
				return "", nil, err
			}
			c = color24(data[off:])
			off += 3
		}
		x, y := Coords(indices[i], width)
		if x < 0 || x >= width || y < 0 || y >= height {
			continue
		}
		pixels = append(pixels, Pixel{X: x, Y: y, Color: c, Owner: buyer})
	}
	return buyer, pixels, nil
}

// EditFlags exposes the flags byte of an encoded PX3 payload.
func EditFlags(data []byte) (byte, error) {
	if len(data) < 5 {
		return 0, fmt.Errorf("wire: truncated px3 payload")
	}
	return data[4], nil
}

// PaletteEncoded reports whether the payload's colors use palette mode.
func PaletteEncoded(flags byte) bool { return flags&flagPalette != 0 }

// DeltaEncoded reports whether the payload's indices use the varint delta
// stream.
func DeltaEncoded(flags byte) bool { return flags&indexModeMask == indexModeDelta }

func appendColor24(dst []byte, c uint32) []byte {
	return append(dst, byte(c>>16), byte(c>>8), byte(c))
}

func color24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}
