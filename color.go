package heatwave

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/colornames"
)

// Skybox is the default clear colour, a neutral mid grey.
var Skybox = gputypes.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}

// FromColor converts a standard color.Color to a straight-alpha GPU colour.
func FromColor(c color.Color) gputypes.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return gputypes.Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// ParseColor parses a clear colour. It accepts "skybox", any SVG 1.1
// colour keyword ("cornflowerblue") and hex in the forms "#rgb", "#rgba",
// "#rrggbb" and "#rrggbbaa". Names are case-insensitive.
func ParseColor(s string) (gputypes.Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "skybox" {
		return Skybox, nil
	}
	if c, ok := colornames.Map[name]; ok {
		return FromColor(c), nil
	}
	if strings.HasPrefix(name, "#") {
		return parseHex(name[1:])
	}
	return gputypes.Color{}, fmt.Errorf("heatwave: unknown colour %q", s)
}

func parseHex(hex string) (gputypes.Color, error) {
	var digits [4]uint64
	digits[3] = 255
	n := len(hex)
	switch n {
	case 3, 4:
		for i := 0; i < n; i++ {
			v, err := strconv.ParseUint(hex[i:i+1], 16, 8)
			if err != nil {
				return gputypes.Color{}, fmt.Errorf("heatwave: bad hex colour %q: %w", "#"+hex, err)
			}
			digits[i] = v * 17
		}
	case 6, 8:
		for i := 0; i < n/2; i++ {
			v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
			if err != nil {
				return gputypes.Color{}, fmt.Errorf("heatwave: bad hex colour %q: %w", "#"+hex, err)
			}
			digits[i] = v
		}
	default:
		return gputypes.Color{}, fmt.Errorf("heatwave: bad hex colour %q: length %d", "#"+hex, n)
	}
	return gputypes.Color{
		R: float64(digits[0]) / 255,
		G: float64(digits[1]) / 255,
		B: float64(digits[2]) / 255,
		A: float64(digits[3]) / 255,
	}, nil
}
