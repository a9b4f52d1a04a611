package utils

// WheelSize is the count of numbers on a single-zero roulette wheel (0-36).
const WheelSize = 37

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// NumberColor returns the display color for a wheel number.
func NumberColor(number int) string {
	if number == 0 {
		return "green"
	}
	if redNumbers[number] {
		return "red"
	}
	return "black"
}

// ValidNumber reports whether a number is on the wheel.
func ValidNumber(number int) bool {
	return number >= 0 && number <= 36
}
