// Package share renders the collection as a shareable PNG, the server-side
// counterpart of the app's canvas export.
package share

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Brittles42/Shelfie/internal/models"
)

const (
	imageWidth = 1080
	lineHeight = 70
	headerSize = 250
	footerSize = 60
)

var (
	gradientTop    = color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}
	gradientBottom = color.RGBA{R: 0x0f, G: 0x34, B: 0x60, A: 0xff}
	gold           = color.RGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff}
	accent         = color.RGBA{R: 0xe9, G: 0x45, B: 0x60, A: 0xff}
	white          = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	faded          = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x80}
)

// Render draws the shelf summary image: a header with the book count, one
// numbered line per book, and a footer.
func Render(books []models.BookRecord) image.Image {
	height := headerSize + len(books)*lineHeight + footerSize
	img := image.NewRGBA(image.Rect(0, 0, imageWidth, height))

	drawGradient(img)

	drawCentered(img, "My Shelfie", 80, gold)
	drawCentered(img, fmt.Sprintf("%d books", len(books)), 130, faded)

	for i, book := range books {
		y := 200 + i*lineHeight
		drawText(img, fmt.Sprintf("%d.", i+1), 50, y, accent)
		drawText(img, truncate(book.Title, 40), 90, y, white)
		if len(book.Authors) > 0 {
			drawText(img, book.Authors[0], 90, y+28, faded)
		}
	}

	drawCentered(img, "Made with Shelfie", height-30, faded)
	return img
}

// WritePNG renders books and encodes the result to w.
func WritePNG(w io.Writer, books []models.BookRecord) error {
	if err := png.Encode(w, Render(books)); err != nil {
		return fmt.Errorf("failed to encode share image: %w", err)
	}
	return nil
}

// drawGradient fills the canvas with a vertical blend from gradientTop to
// gradientBottom.
func drawGradient(img *image.RGBA) {
	bounds := img.Bounds()
	height := bounds.Dy()
	for y := 0; y < height; y++ {
		t := float64(y) / float64(height)
		row := color.RGBA{
			R: lerp(gradientTop.R, gradientBottom.R, t),
			G: lerp(gradientTop.G, gradientBottom.G, t),
			B: lerp(gradientTop.B, gradientBottom.B, t),
			A: 0xff,
		}
		for x := 0; x < bounds.Dx(); x++ {
			img.SetRGBA(x, y, row)
		}
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func drawText(img *image.RGBA, s string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func drawCentered(img *image.RGBA, s string, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(s)
	d.Dot = fixed.P(imageWidth/2, y)
	d.Dot.X -= width / 2
	d.DrawString(s)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
