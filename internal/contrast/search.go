package contrast

import "github.com/lucasb-eyer/go-colorful"

// Search walks HSL lightness in both directions from the starting color.
const (
	LightnessStep = 0.01
	MaxSteps      = 100

	axisEpsilon = 1e-9
)

// Closest returns the color nearest to adjust, by HSL lightness with hue and
// saturation held, whose ratio against partner reaches required. Candidates
// are quantized to 8 bits before they are measured, so the returned color
// meets the ratio exactly as printed. ok is false when both ends of the
// lightness axis are exhausted.
func Closest(adjust, partner Color, required float64) (Color, bool) {
	if Ratio(adjust, partner) >= required {
		return adjust, true
	}
	h, s, l := adjust.colorful().Hsl()

	darkDone, lightDone := false, false
	for i := 1; i <= MaxSteps && !(darkDone && lightDone); i++ {
		d := float64(i) * LightnessStep
		// при равенстве шагов предпочитаем затемнение
		if !darkDone {
			nl := l - d
			if nl <= axisEpsilon {
				nl, darkDone = 0, true
			}
			if c := fromColorful(colorful.Hsl(h, s, nl)); Ratio(c, partner) >= required {
				return c, true
			}
		}
		if !lightDone {
			nl := l + d
			if nl >= 1-axisEpsilon {
				nl, lightDone = 1, true
			}
			if c := fromColorful(colorful.Hsl(h, s, nl)); Ratio(c, partner) >= required {
				return c, true
			}
		}
	}
	return Color{}, false
}
