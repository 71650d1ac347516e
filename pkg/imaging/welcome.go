package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	CardWidth  = 1000
	CardHeight = 300
	avatarSize = 200
)

var (
	cardBackground = color.RGBA{R: 0x23, G: 0x27, B: 0x2A, A: 0xff}
	cardText       = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xff}
	cardMuted      = color.RGBA{R: 0xB9, G: 0xBB, B: 0xBE, A: 0xff}
)

// Card describes a welcome card.
type Card struct {
	Username    string
	Server      string
	MemberCount int
	Accent      int
	Avatar      image.Image
}

// DecodeAvatar reads a PNG, JPEG, GIF or WebP avatar.
func DecodeAvatar(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
}

// WelcomeCard renders the card as PNG.
func WelcomeCard(c Card) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, CardWidth, CardHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(cardBackground), image.Point{}, draw.Src)

	accent := RGB(c.Accent)
	thickLine(img, 0, 0, CardWidth-1, 0, 8, accent)
	thickLine(img, 0, CardHeight-8, CardWidth-1, CardHeight-8, 8, accent)
	thickLine(img, 290, 60, 290, 240, 1, accent)

	ax, ay := 50, (CardHeight-avatarSize)/2
	if c.Avatar != nil {
		scaled := image.NewRGBA(image.Rect(0, 0, avatarSize, avatarSize))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), c.Avatar, c.Avatar.Bounds(), draw.Src, nil)
		draw.DrawMask(img, image.Rect(ax, ay, ax+avatarSize, ay+avatarSize), scaled, image.Point{}, circle{r: avatarSize / 2}, image.Point{}, draw.Over)
	} else {
		draw.DrawMask(img, image.Rect(ax, ay, ax+avatarSize, ay+avatarSize), image.NewUniform(accent), image.Point{}, circle{r: avatarSize / 2}, image.Point{}, draw.Over)
	}

	textX := 320
	drawText(img, "BIENVENIDO/A", textX, 55, 5, accent)
	drawText(img, truncate(c.Username, 22), textX, 135, 4, cardText)
	drawText(img, truncate(c.Server, 40), textX, 200, 2, cardMuted)
	drawText(img, fmt.Sprintf("Miembro #%d", c.MemberCount), textX, 240, 2, cardMuted)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}

// circle is an alpha mask of a disc of radius r anchored at the origin.
type circle struct {
	r int
}

func (c circle) ColorModel() color.Model { return color.AlphaModel }

func (c circle) Bounds() image.Rectangle { return image.Rect(0, 0, 2*c.r, 2*c.r) }

func (c circle) At(x, y int) color.Color {
	dx, dy := float64(x-c.r)+0.5, float64(y-c.r)+0.5
	if dx*dx+dy*dy <= float64(c.r*c.r) {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}
