package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand struct{ n int }

func (f *fixedRand) Intn(n int) int {
	f.n++
	return f.n % n
}

func TestCaptcha(t *testing.T) {
	data, err := Captcha("AB3XYZ", &fixedRand{})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, CaptchaWidth, CaptchaHeight), img.Bounds())
}

func TestWelcomeCard(t *testing.T) {
	avatar := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			avatar.Set(x, y, color.RGBA{R: 0xff, A: 0xff})
		}
	}

	data, err := WelcomeCard(Card{
		Username:    "Ana con un nombre larguísimo de verdad",
		Server:      "Pancy",
		MemberCount: 42,
		Accent:      0x3498DB,
		Avatar:      avatar,
	})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, CardWidth, CardHeight), img.Bounds())

	r, _, _, _ := img.At(150, 150).RGBA()
	assert.Equal(t, uint32(0xffff), r, "avatar centre is drawn")
	r, g, b, _ := img.At(52, 52).RGBA()
	assert.Equal(t, [3]uint32{0x2323, 0x2727, 0x2a2a}, [3]uint32{r, g, b}, "corners outside the circle keep the background")
}

func TestTextHelpers(t *testing.T) {
	w, h := textSize("abc")
	assert.Equal(t, 21, w)
	assert.Equal(t, 13, h)
	assert.Equal(t, "abc~", truncate("abcdefgh", 4))
	assert.Equal(t, color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}, RGB(0x123456))
}
