// Package watermark overlays the bot's attribution tag onto generated
// images before delivery.
package watermark

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	minFontSize    = 80
	edgeMargin     = 30
	strokeRadius   = 3
	defaultQuality = 95
)

// Reason classifies a composition failure.
type Reason string

const (
	ReasonDecode Reason = "decode"
	ReasonRender Reason = "render"
	ReasonEncode Reason = "encode"
)

// Error is returned for any composition failure. Missing fonts are never an
// error; the compositor degrades to the built-in bitmap face instead.
type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("watermark: %s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Compositor renders a fixed text tag into the bottom-right corner of an
// image: a dark stroke outline with a light fill, flattened onto an opaque
// background and re-encoded as JPEG.
type Compositor struct {
	Text      string
	FontPaths []string // ordered candidates, first usable wins
	Quality   int
}

func New(text string, fontPaths []string) *Compositor {
	return &Compositor{Text: text, FontPaths: fontPaths, Quality: defaultQuality}
}

// Composite decodes src, draws the watermark and returns the JPEG-encoded
// result. Output dimensions always equal input dimensions. Images smaller
// than the rendered text may clip the overlay; that is accepted rather than
// scaled around.
func (c *Compositor) Composite(src []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, &Error{Reason: ReasonDecode, Err: err}
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	size := min(width, height) / 8
	if size < minFontSize {
		size = minFontSize
	}
	face := c.loadFace(float64(size))

	// Flatten onto an opaque white canvas; transparency is not part of the
	// delivery format.
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Over)

	text := c.Text
	box, _ := font.BoundString(face, text)
	textW := (box.Max.X - box.Min.X).Ceil()
	textH := (box.Max.Y - box.Min.Y).Ceil()
	originX := fixed.I(width-edgeMargin-textW) - box.Min.X
	originY := fixed.I(height-edgeMargin-textH) - box.Min.Y

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	// Stroke outline: the glyphs redrawn at every offset within the radius.
	// O(radius^2) draw calls, fine at chat-photo resolutions.
	for dx := -strokeRadius; dx <= strokeRadius; dx++ {
		for dy := -strokeRadius; dy <= strokeRadius; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawer.Dot = fixed.Point26_6{X: originX + fixed.I(dx), Y: originY + fixed.I(dy)}
			drawer.DrawString(text)
		}
	}
	drawer.Src = image.NewUniform(color.White)
	drawer.Dot = fixed.Point26_6{X: originX, Y: originY}
	drawer.DrawString(text)

	quality := c.Quality
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: quality}); err != nil {
		return nil, &Error{Reason: ReasonEncode, Err: err}
	}
	return buf.Bytes(), nil
}

// loadFace walks the candidate font files in order and returns the first one
// that parses. When none is usable the built-in bitmap face is returned, so
// composition succeeds, degraded, without any decorative font installed.
func (c *Compositor) loadFace(size float64) font.Face {
	for _, path := range c.FontPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		parsed, err := opentype.Parse(data)
		if err != nil {
			continue
		}
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			continue
		}
		return face
	}
	return basicfont.Face7x13
}
