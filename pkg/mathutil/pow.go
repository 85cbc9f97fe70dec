// Package mathutil holds small numeric helpers with no dependencies on the rest of the service.
package mathutil

// Pow raises x to the integer power n by recursive squaring.
//
// A zero base short-circuits to 0 before the exponent is looked at, so
// Pow(0, 0) and Pow(0, -n) both return 0.
func Pow(x float64, n int) float64 {
	if x == 0 {
		return 0
	}
	if n == 0 {
		return 1
	}
	if n < 0 {
		// -(n+1) stays in range for math.MinInt
		return 1 / (Pow(x, -(n+1)) * x)
	}

	half := Pow(x, n/2)
	if n%2 == 0 {
		return half * half
	}
	return half * half * x
}
