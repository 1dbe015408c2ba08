package wire

import "errors"

// Pixel is the canonical record for one canvas cell.
type Pixel struct {
	X     int
	Y     int
	Color uint32 // 24-bit RGB, 0xRRGGBB
	Owner string
	Price uint64
}

// Index returns the linear index of (x, y) on a grid of the given width.
func Index(x, y, width int) int {
	return y*width + x
}

// Coords is the inverse of Index.
func Coords(idx, width int) (x, y int) {
	return idx % width, idx / width
}

// CompactPayload mirrors the columnar body returned by /canvas and carried
// inside /canvas_delta responses. Owners are deduplicated into OwnerTable;
// every other column holds one entry per pixel.
type CompactPayload struct {
	Revision     uint64   `json:"revision"`
	OwnerTable   []string `json:"ownerTable"`
	Xs           []uint16 `json:"xs"`
	Ys           []uint16 `json:"ys"`
	OwnerIndices []int    `json:"ownerIndices"`
	Prices       []uint64 `json:"prices"`
	Colors       []uint32 `json:"colors"`
}

// ErrMalformedPayload reports a columnar payload whose parallel arrays
// disagree in length. Callers treat it as "no usable change", not as fatal.
var ErrMalformedPayload = errors.New("wire: malformed payload: column length mismatch")

// DecodePayload expands a columnar payload into pixel records. Records whose
// coordinates fall outside [0,width)x[0,height) are dropped silently; a
// column-length mismatch yields no records and ErrMalformedPayload.
func DecodePayload(p CompactPayload, width, height int) ([]Pixel, error) {
	n := len(p.Xs)
	if len(p.Ys) != n || len(p.OwnerIndices) != n || len(p.Prices) != n || len(p.Colors) != n {
		return nil, ErrMalformedPayload
	}
	pixels := make([]Pixel, 0, n)
	for i := 0; i < n; i++ {
		x, y := int(p.Xs[i]), int(p.Ys[i])
		if x < 0 || x >= width || y < 0 || y >= height {
			continue
		}
		owner := ""
		if oi := p.OwnerIndices[i]; oi >= 0 && oi < len(p.OwnerTable) {
			owner = p.OwnerTable[oi]
		}
		pixels = append(pixels, Pixel{
			X:     x,
			Y:     y,
			Color: p.Colors[i] & 0xFFFFFF,
			Owner: owner,
			Price: p.Prices[i],
		})
	}
	return pixels, nil
}
