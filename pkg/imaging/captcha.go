package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
)

const (
	CaptchaWidth  = 280
	CaptchaHeight = 100
	captchaLines  = 8
	captchaPoints = 400
	captchaScale  = 4
)

var captchaColors = []color.RGBA{
	{R: 0xC0, G: 0x39, B: 0x2B, A: 0xff},
	{R: 0x29, G: 0x80, B: 0xB9, A: 0xff},
	{R: 0x27, G: 0xAE, B: 0x60, A: 0xff},
	{R: 0x8E, G: 0x44, B: 0xAD, A: 0xff},
	{R: 0xD3, G: 0x54, B: 0x00, A: 0xff},
	{R: 0x2C, G: 0x3E, B: 0x50, A: 0xff},
}

// Rand is the randomness the captcha needs.
type Rand interface {
	Intn(n int) int
}

func jitter(rng Rand, spread int) int {
	return rng.Intn(2*spread+1) - spread
}

func pick(rng Rand) color.RGBA {
	return captchaColors[rng.Intn(len(captchaColors))]
}

// Captcha renders code on a noisy background.
func Captcha(code string, rng Rand) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, CaptchaWidth, CaptchaHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 0xF5, G: 0xF5, B: 0xF5, A: 0xff}), image.Point{}, draw.Src)

	for i, ch := range code {
		c := pick(rng)
		x := 35*i + 20 + jitter(rng, 5)
		y := 25 + jitter(rng, 10)
		drawText(img, string(ch), x, y, captchaScale, c)
	}

	for i := 0; i < captchaLines; i++ {
		c := pick(rng)
		line(img,
			rng.Intn(CaptchaWidth), rng.Intn(CaptchaHeight),
			rng.Intn(CaptchaWidth), rng.Intn(CaptchaHeight), c)
	}

	for i := 0; i < captchaPoints; i++ {
		img.Set(rng.Intn(CaptchaWidth), rng.Intn(CaptchaHeight), pick(rng))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
