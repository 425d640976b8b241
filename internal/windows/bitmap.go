package windows

import "image"

// bgraToNRGBA converts top-down 32-bit BGRA pixel rows into an image. Icon
// bitmaps carry straight alpha, so the result is non-premultiplied. Bitmaps
// that carry no alpha channel at all are treated as opaque.
func bgraToNRGBA(data []byte, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	n := min(len(data), len(img.Pix))

	hasAlpha := false
	for i := 0; i+3 < n; i += 4 {
		img.Pix[i+0] = data[i+2]
		img.Pix[i+1] = data[i+1]
		img.Pix[i+2] = data[i+0]
		img.Pix[i+3] = data[i+3]

		if data[i+3] != 0 {
			hasAlpha = true
		}
	}

	if !hasAlpha {
		for i := 3; i < n; i += 4 {
			img.Pix[i] = 0xFF
		}
	}

	return img
}

// scale resamples src to size x size with nearest-neighbour sampling.
func scale(src *image.NRGBA, size int) *image.NRGBA {
	b := src.Bounds()
	if size <= 0 || (b.Dx() == size && b.Dy() == size) {
		return src
	}

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))

	for y := 0; y < size; y++ {
		sy := b.Min.Y + y*b.Dy()/size
		for x := 0; x < size; x++ {
			sx := b.Min.X + x*b.Dx()/size
			si := src.PixOffset(sx, sy)
			di := dst.PixOffset(x, y)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}

	return dst
}
