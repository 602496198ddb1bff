package detect

// lineMask keeps only long straight runs of m: horizontal runs at least
// hLen wide and vertical runs at least vLen tall. Opening a binary image
// with a 1xN rectangle twice leaves exactly the runs of length 2N-1 or more,
// so callers pass the effective length.
func lineMask(m *Mask, hLen, vLen int) *Mask {
	out := &Mask{W: m.W, H: m.H, Pix: make([]uint8, len(m.Pix))}

	for y := 0; y < m.H; y++ {
		x := 0
		for x < m.W {
			if !m.at(x, y) {
				x++
				continue
			}
			start := x
			for x < m.W && m.at(x, y) {
				x++
			}
			if x-start >= hLen {
				for i := start; i < x; i++ {
					out.Pix[y*m.W+i] = foreground
				}
			}
		}
	}

	for x := 0; x < m.W; x++ {
		y := 0
		for y < m.H {
			if !m.at(x, y) {
				y++
				continue
			}
			start := y
			for y < m.H && m.at(x, y) {
				y++
			}
			if y-start >= vLen {
				for i := start; i < y; i++ {
					out.Pix[i*m.W+x] = foreground
				}
			}
		}
	}
	return out
}

// openingLength is the run length that survives an opening with a kernel
// of half the given extent applied for the given number of iterations.
func openingLength(extent, iterations int) int {
	k := extent / 2
	if k < 1 {
		k = 1
	}
	return iterations*(k-1) + 1
}
