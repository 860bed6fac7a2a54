// Package bitmap decodes Director BITD chunk payloads: PackBits RLE
// expansion and per-depth scanline unpacking. Palettes are not applied:
// indexed depths decode to palette indices.
package bitmap

import (
	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
)

// Palette is an RGB color table, index -> (r,g,b).
type Palette [][3]uint8

// Bitmap is a fully decoded image: one byte per pixel-channel-sample laid
// out row-major, ready for palette/ARGB interpretation by the caller.
type Bitmap struct {
	Width, Height int
	BitsPerPixel  int
	// Pixels holds one byte per channel sample: for indexed depths (1/2/4/8)
	// one byte per pixel (the palette index); for 16-bit, two bytes per
	// pixel (5-6-5 packed, native order); for 32-bit, four bytes per pixel
	// in A,R,G,B order.
	Pixels []byte
}

// scanlineAlignment returns the byte-alignment multiple for each
// bits-per-pixel depth.
func scanlineAlignment(bpp int) int {
	switch bpp {
	case 1:
		return 16
	case 2:
		return 2
	case 4:
		return 4
	case 8:
		return 2
	case 16:
		return 2
	case 32:
		return 1
	default:
		return 4
	}
}

func rowBytes(width, bpp, alignment int) int {
	bits := width * bpp
	bytes := (bits + 7) / 8
	if alignment > 1 {
		rem := bytes % alignment
		if rem != 0 {
			bytes += alignment - rem
		}
	}
	return bytes
}

// Decode decodes raw bitmap bytes into a Bitmap. It RLE-inflates the input
// when it is shorter than the expected decompressed length, then unpacks
// per-depth scanlines: 16-bit rows are always read as planar per scanline
// and 32-bit rows always as A-R-G-B planes per scanline. Neither layout
// depends on whether the input was compressed or on directorVersion, and
// palette is not used.
func Decode(raw []byte, width, height, bpp int, palette Palette, directorVersion int) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, coreerrors.NewDecodeError("Truncated", "bitmap.Decode: zero dimension", nil)
	}
	alignment := scanlineAlignment(bpp)
	stride := rowBytes(width, bpp, alignment)
	expected := stride * height

	var planeStride int
	var planeCount int
	switch bpp {
	case 32:
		planeCount = 4
		planeStride = width // one byte per pixel per plane (A,R,G,B)
		expected = planeStride * planeCount * height
	case 16:
		planeCount = 2
		planeStride = width
		expected = planeStride * planeCount * height
	}

	data := raw
	if len(raw) < expected {
		expanded, err := rleExpand(raw, expected)
		if err != nil {
			return nil, err
		}
		data = expanded
	}
	if len(data) < expected {
		return nil, coreerrors.NewDecodeError("Truncated", "bitmap.Decode: short after expansion", nil)
	}

	pixels := make([]byte, width*height*bytesPerPixelSample(bpp))

	switch bpp {
	case 1, 2, 4, 8:
		unpackIndexed(data, pixels, width, height, bpp, stride)
	case 16:
		unpack16Planar(data, pixels, width, height, planeStride)
	case 32:
		unpack32PlanePerScanline(data, pixels, width, height, planeStride)
	default:
		return nil, coreerrors.NewDecodeError("Truncated", "bitmap.Decode: unsupported bpp", nil)
	}

	return &Bitmap{Width: width, Height: height, BitsPerPixel: bpp, Pixels: pixels}, nil
}

func bytesPerPixelSample(bpp int) int {
	switch bpp {
	case 16:
		return 2
	case 32:
		return 4
	default:
		return 1
	}
}

// unpackIndexed expands sub-byte packed pixel indices (1/2/4 bpp) or copies
// 8-bpp rows directly, writing one index byte per pixel into out.
func unpackIndexed(data, out []byte, width, height, bpp, stride int) {
	for y := 0; y < height; y++ {
		row := data[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			var v byte
			switch bpp {
			case 8:
				v = row[x]
			case 4:
				b := row[x/2]
				if x%2 == 0 {
					v = b >> 4
				} else {
					v = b & 0x0f
				}
			case 2:
				b := row[x/4]
				shift := uint(6 - 2*(x%4))
				v = (b >> shift) & 0x03
			case 1:
				b := row[x/8]
				shift := uint(7 - x%8)
				v = (b >> shift) & 0x01
			}
			out[y*width+x] = v
		}
	}
}

// unpack16Planar unpacks one 16-bit-per-pixel scanline stored as two
// separate byte planes (compressed source convention).
func unpack16Planar(data, out []byte, width, height, planeStride int) {
	rowIn := planeStride * 2
	for y := 0; y < height; y++ {
		row := data[y*rowIn : (y+1)*rowIn]
		hi := row[:planeStride]
		lo := row[planeStride:]
		for x := 0; x < width; x++ {
			off := (y*width + x) * 2
			out[off] = hi[x]
			out[off+1] = lo[x]
		}
	}
}

// unpack32PlanePerScanline unpacks A,R,G,B planes stored sequentially per
// scanline (Director 4+ bitmap convention).
func unpack32PlanePerScanline(data, out []byte, width, height, planeStride int) {
	rowIn := planeStride * 4
	for y := 0; y < height; y++ {
		row := data[y*rowIn : (y+1)*rowIn]
		a := row[0*planeStride : 1*planeStride]
		r := row[1*planeStride : 2*planeStride]
		g := row[2*planeStride : 3*planeStride]
		b := row[3*planeStride : 4*planeStride]
		for x := 0; x < width; x++ {
			off := (y*width + x) * 4
			out[off] = a[x]
			out[off+1] = r[x]
			out[off+2] = g[x]
			out[off+3] = b[x]
		}
	}
}

// rleExpand inflates PackBits-compressed bytes until the output reaches
// expected length. Contract: a literal-run header n < 0x80
// copies n+1 following bytes; a repeat-run header c > 0x80 emits 257-c
// copies of the following byte; 0x80 is a no-op.
func rleExpand(src []byte, expected int) ([]byte, error) {
	out := make([]byte, 0, expected)
	i := 0
	for len(out) < expected {
		if i >= len(src) {
			return nil, coreerrors.NewDecodeError("Truncated", "bitmap.rleExpand", nil)
		}
		ctrl := src[i]
		i++
		switch {
		case ctrl == 0x80:
			// no-op
		case ctrl < 0x80:
			n := int(ctrl) + 1
			if i+n > len(src) {
				return nil, coreerrors.NewDecodeError("Truncated", "bitmap.rleExpand: literal run", nil)
			}
			out = append(out, src[i:i+n]...)
			i += n
		default:
			count := 257 - int(ctrl)
			if i >= len(src) {
				return nil, coreerrors.NewDecodeError("Truncated", "bitmap.rleExpand: repeat run", nil)
			}
			b := src[i]
			i++
			for k := 0; k < count; k++ {
				out = append(out, b)
			}
		}
	}
	return out[:expected], nil
}
