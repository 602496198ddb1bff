//go:build gocv

package detect

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/milk9111/spriteslicer/sheet"
)

func externalBounds(m *Mask) ([]sheet.Rect, error) {
	if m.W == 0 || m.H == 0 {
		return nil, nil
	}
	mat, err := gocv.NewMatFromBytes(m.H, m.W, gocv.MatTypeCV8U, m.Pix)
	if err != nil {
		return nil, fmt.Errorf("detect: mask to mat: %w", err)
	}
	defer mat.Close()

	contours := gocv.FindContours(mat, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	rects := make([]sheet.Rect, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		rects = append(rects, sheet.FromImage(gocv.BoundingRect(contours.At(i))))
	}
	return rects, nil
}
