package main

import (
	"errors"
	"image"

	"golang.design/x/clipboard"

	"github.com/milk9111/spriteslicer/sheet"
)

var errNoClipboard = errors.New("clipboard unavailable")

// Clipboard copies sprites as PNG images. It degrades to an error when the
// platform clipboard could not be initialised.
type Clipboard struct {
	ready bool
}

func NewClipboard() (*Clipboard, error) {
	if err := clipboard.Init(); err != nil {
		return &Clipboard{}, err
	}
	return &Clipboard{ready: true}, nil
}

func (c *Clipboard) CopyImage(img image.Image) error {
	if c == nil || !c.ready {
		return errNoClipboard
	}
	data, err := sheet.EncodePNG(img)
	if err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}
