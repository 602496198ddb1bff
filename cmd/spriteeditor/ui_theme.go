package main

import (
	"bytes"
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Editor palette. The side panel is dark, dialogs are light.
var (
	panelBackground  = color.RGBA{40, 40, 40, 255}
	dialogBackground = color.RGBA{220, 220, 220, 255}
	overlayShade     = color.RGBA{0, 0, 0, 160}
	listBackground   = color.RGBA{52, 52, 56, 255}
	listSelected     = color.RGBA{70, 110, 170, 255}
	errorText        = color.RGBA{160, 0, 0, 255}
)

func loadFontFace(size float64) (*text.Face, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, err
	}
	var face text.Face = &text.GoTextFace{Source: src, Size: size}
	return &face, nil
}

// uiStyle bundles the widget images and colors shared by the panel and its
// dialogs.
type uiStyle struct {
	face        *text.Face
	panelLabel  *widget.LabelColor
	dialogLabel *widget.LabelColor
	button      *widget.ButtonImage
	buttonText  *widget.ButtonTextColor
	input       *widget.TextInputImage
	inputText   *widget.TextInputColor
}

func newUIStyle(face *text.Face) *uiStyle {
	return &uiStyle{
		face:        face,
		panelLabel:  &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}},
		dialogLabel: &widget.LabelColor{Idle: color.Black, Disabled: color.Gray{Y: 140}},
		button: &widget.ButtonImage{
			Idle:    image.NewNineSliceColor(color.RGBA{180, 180, 180, 255}),
			Hover:   image.NewNineSliceColor(color.RGBA{200, 200, 200, 255}),
			Pressed: image.NewNineSliceColor(color.RGBA{160, 160, 160, 255}),
		},
		buttonText: &widget.ButtonTextColor{Idle: color.Black},
		input: &widget.TextInputImage{
			Idle:     image.NewNineSliceColor(color.RGBA{245, 245, 245, 255}),
			Disabled: image.NewNineSliceColor(color.RGBA{200, 200, 200, 255}),
		},
		inputText: &widget.TextInputColor{
			Idle:     color.Black,
			Disabled: color.Gray{Y: 120},
			Caret:    color.Black,
		},
	}
}

// listTheme styles the sprite list, the only widget that reads the UI theme.
func (s *uiStyle) listTheme() *widget.Theme {
	return &widget.Theme{
		ListTheme: &widget.ListParams{
			EntryFace: s.face,
			EntryColor: &widget.ListEntryColor{
				Unselected:          color.White,
				Selected:            color.White,
				DisabledUnselected:  color.Gray{Y: 128},
				DisabledSelected:    color.Gray{Y: 96},
				SelectingBackground: listSelected,
				SelectedBackground:  listSelected,
			},
			ScrollContainerImage: &widget.ScrollContainerImage{
				Idle: image.NewNineSliceColor(listBackground),
				Mask: image.NewNineSliceColor(listBackground),
			},
		},
	}
}

func (s *uiStyle) newButton(label string, fn func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(s.button),
		widget.ButtonOpts.Text(label, s.face, s.buttonText),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) { fn() }),
	)
}
