package bridge

import "math"

// Levels on the wire are percentages (0..100); the outward state model uses
// 8-bit brightness (0..255).

func brightnessToLevel(brightness int) float64 {
	if brightness < 0 {
		brightness = 0
	} else if brightness > 255 {
		brightness = 255
	}

	return float64(brightness) * 100 / 255
}

func levelToBrightness(level float64) int {
	if level < 0 {
		level = 0
	} else if level > 100 {
		level = 100
	}

	return int(math.Round(level * 255 / 100))
}

// scaleColorBrightness scales an RGB(W) channel value by a brightness
// fraction, so full-colour values can be dimmed without losing hue.
func scaleColorBrightness(value uint8, brightness int) uint8 {
	if brightness < 0 {
		brightness = 0
	} else if brightness > 255 {
		brightness = 255
	}

	return uint8(math.Round(float64(value) * float64(brightness) / 255))
}

// footcandlesToLux converts a light level reading. One footcandle is the
// illuminance of one lumen per square foot, 10.7639 lux.
func footcandlesToLux(footcandles float64) float64 {
	return footcandles * 10.7639
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
