package wire

import (
	"errors"
	"testing"
)

func TestDecodePayloadPreservesRecords(t *testing.T) {
	p := CompactPayload{
		Revision:     42,
		OwnerTable:   []string{"alice", "bob"},
		Xs:           []uint16{0, 3, 9},
		Ys:           []uint16{0, 4, 9},
		OwnerIndices: []int{1, 0, 1},
		Prices:       []uint64{10, 25, 0},
		Colors:       []uint32{0xFF0000, 0x00FF00, 0x0000FF},
	}
	pixels, err := DecodePayload(p, 10, 10)
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if len(pixels) != 3 {
		t.Fatalf("decoded %d pixels, want 3", len(pixels))
	}
	want := []Pixel{
		{X: 0, Y: 0, Color: 0xFF0000, Owner: "bob", Price: 10},
		{X: 3, Y: 4, Color: 0x00FF00, Owner: "alice", Price: 25},
		{X: 9, Y: 9, Color: 0x0000FF, Owner: "bob", Price: 0},
	}
	for i, px := range pixels {
		if px != want[i] {
			t.Errorf("pixel[%d] = %#v, want %#v", i, px, want[i])
		}
	}
}

func TestDecodePayloadColumnMismatch(t *testing.T) {
	cases := []struct {
		name string
		p    CompactPayload
	}{
		{"short ys", CompactPayload{Xs: []uint16{1, 2}, Ys: []uint16{1}, OwnerIndices: []int{0, 0}, Prices: []uint64{0, 0}, Colors: []uint32{0, 0}}},
		{"short owners", CompactPayload{Xs: []uint16{1}, Ys: []uint16{1}, OwnerIndices: nil, Prices: []uint64{0}, Colors: []uint32{0}}},
		{"short prices", CompactPayload{Xs: []uint16{1}, Ys: []uint16{1}, OwnerIndices: []int{0}, Prices: nil, Colors: []uint32{0}}},
		{"short colors", CompactPayload{Xs: []uint16{1}, Ys: []uint16{1}, OwnerIndices: []int{0}, Prices: []uint64{0}, Colors: nil}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pixels, err := DecodePayload(tc.p, 10, 10)
			if !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("error = %v, want ErrMalformedPayload", err)
			}
			if len(pixels) != 0 {
				t.Fatalf("decoded %d pixels, want none", len(pixels))
			}
		})
	}
}

func TestDecodePayloadDropsOutOfRangeCoordinates(t *testing.T) {
	p := CompactPayload{
		OwnerTable:   []string{"a"},
		Xs:           []uint16{5, 10, 3},
		Ys:           []uint16{5, 0, 12},
		OwnerIndices: []int{0, 0, 0},
		Prices:       []uint64{1, 1, 1},
		Colors:       []uint32{1, 2, 3},
	}
	pixels, err := DecodePayload(p, 10, 10)
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if len(pixels) != 1 || pixels[0].X != 5 || pixels[0].Y != 5 {
		t.Fatalf("pixels = %#v, want only (5,5)", pixels)
	}
}

func TestDecodePayloadUnknownOwnerIndex(t *testing.T) {
	p := CompactPayload{
		OwnerTable:   []string{"a"},
		Xs:           []uint16{1},
		Ys:           []uint16{1},
		OwnerIndices: []int{7},
		Prices:       []uint64{1},
		Colors:       []uint32{1},
	}
	pixels, err := DecodePayload(p, 10, 10)
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if len(pixels) != 1 || pixels[0].Owner != "" {
		t.Fatalf("pixels = %#v, want one record with empty owner", pixels)
	}
}

func TestIndexCoordsRoundTrip(t *testing.T) {
	const width = 37
	for _, xy := range [][2]int{{0, 0}, {36, 0}, {0, 5}, {17, 29}} {
		idx := Index(xy[0], xy[1], width)
		x, y := Coords(idx, width)
		if x != xy[0] || y != xy[1] {
			t.Errorf("Coords(Index(%d,%d)) = (%d,%d)", xy[0], xy[1], x, y)
		}
	}
}
