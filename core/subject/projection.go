package subject

import (
	"fmt"
	"math"
)

// Projection is the derived attendance view of a Subject.
type Projection struct {
	CurrentAttendance float64 `json:"currentAttendance"`
	BunksPossible     int     `json:"bunksPossible"`
	Recommendation    string  `json:"recommendation"`
}

const unreachableTargetText = "Your attendance target cannot be reached anymore. Attend every remaining class."

// Project computes the attendance percentage, the number of classes that may
// still be skipped while meeting minAttendance, and an advisory message.
// It is a pure function of its inputs.
//
// All threshold comparisons are done in integer arithmetic (counters scaled
// by 100) so the result never depends on float rounding; the percentage is
// rounded to 2 decimal places for display only.
func Project(total, attended, minAttendance int, strictness string) Projection {
	if total <= 0 {
		return Projection{CurrentAttendance: 100}
	}

	p := Projection{
		CurrentAttendance: math.Round(float64(attended)/float64(total)*100*100) / 100,
	}

	// bunksPossible = floor(attended - total*minAttendance/100), clamped at 0
	if surplus := 100*attended - total*minAttendance; surplus > 0 {
		p.BunksPossible = surplus / 100
	}

	if 100*attended < total*minAttendance { // shortfall
		p.Recommendation = shortfallRecommendation(total, attended, minAttendance, strictness)
		return p
	}

	switch {
	case strictness == StrictnessStrict && 100*attended < total*(minAttendance+10):
		p.Recommendation = "Strict Prof: You're safe, but build a higher buffer."
	case strictness == StrictnessModerate && 100*attended < total*(minAttendance+5):
		p.Recommendation = "Moderate Prof: You have a small, but safe buffer."
	default:
		p.Recommendation = "You have a healthy attendance. Your call!"
	}
	return p
}

// shortfallRecommendation names the number of consecutive classes to attend
// to climb back to the threshold: ceil((minAttendance*total - 100*attended) / (100 - minAttendance)).
// A threshold of 100% makes the denominator 0; once short, such a target is
// unreachable and gets its own message.
func shortfallRecommendation(total, attended, minAttendance int, strictness string) string {
	numerator := minAttendance*total - 100*attended
	denominator := 100 - minAttendance
	if denominator <= 0 {
		return unreachableTargetText
	}

	classesToAttend := (numerator + denominator - 1) / denominator // ceil
	if strictness == StrictnessStrict {
		return fmt.Sprintf("Warning: Prof is strict! You MUST attend the next %d classes.", classesToAttend)
	}
	return fmt.Sprintf("Shortfall! You need to attend the next %d classes.", classesToAttend)
}
