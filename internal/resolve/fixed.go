package resolve

import "math"

// A full turn is 4096 angle units and 1.0 is 0x1000 in 12-bit fixed point.
const (
	turn     = 4096
	fixedOne = 0x1000
)

// SafeDiv divides, returning 0 for a zero divisor.
func SafeDiv(a, b int32) int32 {
	if b == 0 {
		return 0
	}
	if a == math.MinInt32 && b == -1 {
		return a
	}
	return a / b
}

// SafeMod is the remainder counterpart of SafeDiv.
func SafeMod(a, b int32) int32 {
	if b == 0 || b == -1 {
		return 0
	}
	return a % b
}

// Abs returns |v| with two's complement wraparound for MinInt32.
func Abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Sqrt is the integer square root; negative inputs yield 0.
func Sqrt(v int32) int32 {
	if v <= 0 {
		return 0
	}
	return int32(math.Sqrt(float64(v)))
}

// Mul12 multiplies two 12-bit fixed point values.
func Mul12(a, b int32) int32 {
	return (a >> 4) * (b >> 4) >> 4
}

// Div12 divides two 12-bit fixed point values.
func Div12(a, b int32) int32 {
	if b == 0 {
		return 0
	}
	return SafeDiv(a<<4, b) << 8
}

func angleToRad(a int32) float64 {
	return float64(a) * 2 * math.Pi / turn
}

// Sin12 returns the sine of an angle in fixed point, truncated to 16 bits.
func Sin12(angle int32) int32 {
	return int32(int16(int32(math.Sin(angleToRad(angle)) * fixedOne)))
}

// Cos12 returns the cosine of an angle in fixed point, truncated to 16 bits.
func Cos12(angle int32) int32 {
	return int32(int16(int32(math.Cos(angleToRad(angle)) * fixedOne)))
}

// Atan2_12 returns the angle of (x, y) in angle units.
func Atan2_12(y, x int32) int32 {
	if y == 0 && x == 0 {
		return 0
	}
	return int32(math.Atan2(float64(y), float64(x)) * turn / (2 * math.Pi))
}
