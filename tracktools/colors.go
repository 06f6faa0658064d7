package tracktools

// Track colors come from evenly spaced hues at fixed saturation and
// lightness, which keeps N individuals maximally separated on the globe.
const (
	colorSaturation = 0.8
	colorLightness  = 0.6
)

// trackColor returns the 8-bit RGB color for the i-th of n individuals.
func trackColor(i, n int) [3]uint8 {
	hue := float64(i) / float64(n)
	return hslToRGB(hue, colorSaturation, colorLightness)
}

// hslToRGB converts an HSL triple (all components in [0,1]) to 8-bit RGB.
func hslToRGB(h, s, l float64) [3]uint8 {
	if s == 0 {
		v := uint8(l * 255)
		return [3]uint8{v, v, v}
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	r := hueToChannel(p, q, h+1.0/3)
	g := hueToChannel(p, q, h)
	b := hueToChannel(p, q, h-1.0/3)
	return [3]uint8{uint8(r * 255), uint8(g * 255), uint8(b * 255)}
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}
