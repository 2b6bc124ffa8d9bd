package render

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Text draws in screen space at a size derived from the zoom scale, so
// faces are cached per rounded pixel size.
var (
	fontMu    sync.Mutex
	parsed    *opentype.Font
	faceCache = map[int]font.Face{}
)

func faceFor(px float64) font.Face {
	size := int(px)
	if size < 6 {
		size = 6
	}
	if size > 96 {
		size = 96
	}

	fontMu.Lock()
	defer fontMu.Unlock()
	if f, ok := faceCache[size]; ok {
		return f
	}
	if parsed == nil {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			panic(err) // embedded font, cannot fail
		}
		parsed = f
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		panic(err)
	}
	faceCache[size] = face
	return face
}
