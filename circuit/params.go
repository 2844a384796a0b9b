package circuit

import (
	"fmt"
	"math"
	"strconv"
)

const (
	maxAngleExponent = 62      // largest denominator tried is 2^62
	maxAngleNumer    = 1 << 24 // numerators beyond this fall back to %g
	angleTolerance   = 1e-7
)

// FormatAngle formats an angle in radians, using k*pi/2^j notation when the
// angle is such a fraction. Fractions come out reduced, e.g. "pi/2",
// "-3*pi/4", "2*pi".
func FormatAngle(val float64) string {
	if val == 0 {
		return "0"
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Sprintf("%g", val)
	}

	for j := 0; j <= maxAngleExponent; j++ {
		k := math.Ldexp(val/math.Pi, j)
		if math.Abs(k) > maxAngleNumer {
			break
		}
		rk := math.Round(k)
		if rk == 0 || math.Abs(k-rk) > angleTolerance {
			continue
		}
		return piFraction(int64(rk), j)
	}

	return fmt.Sprintf("%g", val)
}

func piFraction(k int64, exp int) string {
	var num string
	switch k {
	case 1:
		num = "pi"
	case -1:
		num = "-pi"
	default:
		num = strconv.FormatInt(k, 10) + "*pi"
	}
	if exp == 0 {
		return num
	}
	return num + "/" + strconv.FormatUint(uint64(1)<<exp, 10)
}
