package wire

import (
	"math/rand"
	"testing"
)

func pixelSet(pixels []Pixel, width int) map[int]uint32 {
	set := make(map[int]uint32, len(pixels))
	for _, px := range pixels {
		set[Index(px.X, px.Y, width)] = px.Color
	}
	return set
}

func TestEncodeEditsRoundTrip(t *testing.T) {
	const width, height = 512, 512
	rng := rand.New(rand.NewSource(7))

	for _, n := range []int{0, 1, 17, 500} {
		n := n
		t.Run("", func(t *testing.T) {
			pixels := make([]Pixel, 0, n)
			for i := 0; i < n; i++ {
				pixels = append(pixels, Pixel{
					X:     rng.Intn(width),
					Y:     rng.Intn(height),
					Color: rng.Uint32() & 0xFFFFFF,
				})
			}
			data, err := EncodeEdits("buyer-1", pixels, width)
			if err != nil {
				t.Fatalf("EncodeEdits returned error: %v", err)
			}
			buyer, decoded, err := DecodeEdits(data, width, height)
			if err != nil {
				t.Fatalf("DecodeEdits returned error: %v", err)
			}
			if buyer != "buyer-1" {
				t.Fatalf("buyer = %q, want buyer-1", buyer)
			}
			want := pixelSet(pixels, width)
			got := pixelSet(decoded, width)
			if len(got) != len(want) {
				t.Fatalf("decoded %d distinct pixels, want %d", len(got), len(want))
			}
			for idx, c := range want {
				if got[idx] != c {
					x, y := Coords(idx, width)
					t.Fatalf("pixel (%d,%d) color = %06x, want %06x", x, y, got[idx], c)
				}
			}
		})
	}
}

func TestEncodeEditsPicksPaletteForFewColors(t *testing.T) {
	const width = 1000
	pixels := make([]Pixel, 0, 10000)
	for i := 0; i < 10000; i++ {
		pixels = append(pixels, Pixel{
			X:     i % width,
			Y:     i / width,
			Color: uint32(i % 200), // 200 distinct colors
		})
	}
	data, err := EncodeEdits("b", pixels, width)
	if err != nil {
		t.Fatalf("EncodeEdits returned error: %v", err)
	}
	flags, err := EditFlags(data)
	if err != nil {
		t.Fatalf("EditFlags returned error: %v", err)
	}
	if !PaletteEncoded(flags) {
		t.Fatalf("flags = %#x, want palette mode for 200 distinct colors", flags)
	}

	// With the palette in play the color section is one byte per pixel:
	// contiguous indices also force the delta stream (one byte per index),
	// so the whole payload must stay well under 3 bytes per pixel.
	overhead := 5 + 2 + len("b") + 4 + 2 + 3*200
	if len(data) >= overhead+3*10000 {
		t.Fatalf("payload is %d bytes, want < %d", len(data), overhead+3*10000)
	}

	_, decoded, err := DecodeEdits(data, width, 1000)
	if err != nil {
		t.Fatalf("DecodeEdits returned error: %v", err)
	}
	if len(decoded) != 10000 {
		t.Fatalf("decoded %d pixels, want 10000", len(decoded))
	}
}

func TestEncodeEditsPicksRawForManyColors(t *testing.T) {
	const width = 1000
	pixels := make([]Pixel, 0, 400)
	for i := 0; i < 400; i++ {
		pixels = append(pixels, Pixel{X: i, Y: 0, Color: uint32(i)})
	}
	data, err := EncodeEdits("b", pixels, width)
	if err != nil {
		t.Fatalf("EncodeEdits returned error: %v", err)
	}
	flags, err := EditFlags(data)
	if err != nil {
		t.Fatalf("EditFlags returned error: %v", err)
	}
	if PaletteEncoded(flags) {
		t.Fatalf("flags = %#x, want raw colors for 400 distinct values", flags)
	}
}

func TestEncodeEditsIndexModeChoice(t *testing.T) {
	const width = 4096

	// Adjacent pixels delta-encode to one byte each, beating 3B absolute.
	dense := make([]Pixel, 0, 64)
	for i := 0; i < 64; i++ {
		dense = append(dense, Pixel{X: i, Y: 0, Color: 0xFF0000})
	}
	data, err := EncodeEdits("b", dense, width)
	if err != nil {
		t.Fatalf("EncodeEdits returned error: %v", err)
	}
	flags, _ := EditFlags(data)
	if !DeltaEncoded(flags) {
		t.Fatalf("flags = %#x, want delta indices for a dense run", flags)
	}

	// Pixels spread megapixels apart need 4-byte varint deltas; the fixed
	// 3-byte absolute form wins.
	sparse := make([]Pixel, 0, 6)
	for i := 1; i <= 6; i++ {
		x, y := Coords(i*2200000, width)
		sparse = append(sparse, Pixel{X: x, Y: y, Color: 0xFF0000})
	}
	data, err = EncodeEdits("b", sparse, width)
	if err != nil {
		t.Fatalf("EncodeEdits returned error: %v", err)
	}
	flags, _ = EditFlags(data)
	if DeltaEncoded(flags) {
		t.Fatalf("flags = %#x, want absolute indices for sparse pixels", flags)
	}

	for _, pixels := range [][]Pixel{dense, sparse} {
		data, err := EncodeEdits("b", pixels, width)
		if err != nil {
			t.Fatalf("EncodeEdits returned error: %v", err)
		}
		_, decoded, err := DecodeEdits(data, width, 4096)
		if err != nil {
			t.Fatalf("DecodeEdits returned error: %v", err)
		}
		if len(decoded) != len(pixels) {
			t.Fatalf("decoded %d pixels, want %d", len(decoded), len(pixels))
		}
	}
}

func TestEncodeEditsLastWriteWinsOnDuplicates(t *testing.T) {
	pixels := []Pixel{
		{X: 3, Y: 3, Color: 0x111111},
		{X: 3, Y: 3, Color: 0x222222},
	}
	data, err := EncodeEdits("b", pixels, 10)
	if err != nil {
		t.Fatalf("EncodeEdits returned error: %v", err)
	}
	_, decoded, err := DecodeEdits(data, 10, 10)
	if err != nil {
		t.Fatalf("DecodeEdits returned error: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Color != 0x222222 {
		t.Fatalf("decoded = %#v, want single pixel with color 222222", decoded)
	}
}

func TestDecodeEditsRejectsDamage(t *testing.T) {
	data, err := EncodeEdits("buyer", []Pixel{{X: 1, Y: 1, Color: 0xABCDEF}}, 16)
	if err != nil {
		t.Fatalf("EncodeEdits returned error: %v", err)
	}

	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", append([]byte("QX3"), data[3:]...)},
		{"bad version", append(append([]byte{}, data[:3]...), append([]byte{99}, data[4:]...)...)},
		{"truncated", data[:len(data)-2]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := DecodeEdits(tc.data, 16, 16); err == nil {
				t.Fatal("DecodeEdits returned nil error, want error")
			}
		})
	}
}

func TestDecodeEditsDropsOutOfRange(t *testing.T) {
	// Encode on a 100-wide grid, decode against a 10x10 one: every linear
	// index past the smaller grid must vanish without an error.
	pixels := []Pixel{
		{X: 5, Y: 5, Color: 0x010203},
		{X: 50, Y: 50, Color: 0x040506},
	}
	data, err := EncodeEdits("b", pixels, 10)
	if err != nil {
		t.Fatalf("EncodeEdits returned error: %v", err)
	}
	_, decoded, err := DecodeEdits(data, 10, 10)
	if err != nil {
		t.Fatalf("DecodeEdits returned error: %v", err)
	}
	if len(decoded) != 1 || decoded[0].X != 5 || decoded[0].Y != 5 {
		t.Fatalf("decoded = %#v, want only (5,5)", decoded)
	}
}
