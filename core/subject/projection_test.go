package subject

import (
	"testing"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name          string
		total         int
		attended      int
		minAttendance int
		strictness    string
		want          Projection
	}{
		{
			name: "no classes yet", total: 0, attended: 0, minAttendance: 75, strictness: StrictnessModerate,
			want: Projection{CurrentAttendance: 100, BunksPossible: 0, Recommendation: ""},
		},
		{
			name: "healthy buffer", total: 20, attended: 18, minAttendance: 75, strictness: StrictnessModerate,
			want: Projection{CurrentAttendance: 90, BunksPossible: 3, Recommendation: "You have a healthy attendance. Your call!"},
		},
		{
			name: "moderate small buffer", total: 20, attended: 15, minAttendance: 75, strictness: StrictnessModerate,
			want: Projection{CurrentAttendance: 75, BunksPossible: 0, Recommendation: "Moderate Prof: You have a small, but safe buffer."},
		},
		{
			name: "strict safe but low buffer", total: 20, attended: 16, minAttendance: 75, strictness: StrictnessStrict,
			want: Projection{CurrentAttendance: 80, BunksPossible: 1, Recommendation: "Strict Prof: You're safe, but build a higher buffer."},
		},
		{
			name: "strict healthy", total: 20, attended: 17, minAttendance: 75, strictness: StrictnessStrict,
			want: Projection{CurrentAttendance: 85, BunksPossible: 2, Recommendation: "You have a healthy attendance. Your call!"},
		},
		{
			name: "lenient at threshold", total: 4, attended: 3, minAttendance: 75, strictness: StrictnessLenient,
			want: Projection{CurrentAttendance: 75, BunksPossible: 0, Recommendation: "You have a healthy attendance. Your call!"},
		},
		{
			name: "shortfall", total: 10, attended: 5, minAttendance: 75, strictness: StrictnessLenient,
			want: Projection{CurrentAttendance: 50, BunksPossible: 0, Recommendation: "Shortfall! You need to attend the next 10 classes."},
		},
		{
			name: "shortfall strict", total: 10, attended: 5, minAttendance: 75, strictness: StrictnessStrict,
			want: Projection{CurrentAttendance: 50, BunksPossible: 0, Recommendation: "Warning: Prof is strict! You MUST attend the next 10 classes."},
		},
		{
			name: "shortfall ceil", total: 10, attended: 7, minAttendance: 75, strictness: StrictnessModerate,
			want: Projection{CurrentAttendance: 70, BunksPossible: 0, Recommendation: "Shortfall! You need to attend the next 2 classes."},
		},
		{
			name: "unreachable 100% target", total: 10, attended: 9, minAttendance: 100, strictness: StrictnessModerate,
			want: Projection{CurrentAttendance: 90, BunksPossible: 0, Recommendation: "Your attendance target cannot be reached anymore. Attend every remaining class."},
		},
		{
			name: "100% target still met", total: 10, attended: 10, minAttendance: 100, strictness: StrictnessLenient,
			want: Projection{CurrentAttendance: 100, BunksPossible: 0, Recommendation: "You have a healthy attendance. Your call!"},
		},
		{
			name: "zero threshold", total: 10, attended: 0, minAttendance: 0, strictness: StrictnessLenient,
			want: Projection{CurrentAttendance: 0, BunksPossible: 0, Recommendation: "You have a healthy attendance. Your call!"},
		},
		{
			name: "percent rounded to 2 decimals", total: 3, attended: 2, minAttendance: 50, strictness: StrictnessLenient,
			want: Projection{CurrentAttendance: 66.67, BunksPossible: 0, Recommendation: "You have a healthy attendance. Your call!"},
		},
		{
			name: "bunks truncate toward zero", total: 7, attended: 6, minAttendance: 75, strictness: StrictnessLenient,
			// 6 - 7*0.75 = 0.75 -> floor 0
			want: Projection{CurrentAttendance: 85.71, BunksPossible: 0, Recommendation: "You have a healthy attendance. Your call!"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(tt.total, tt.attended, tt.minAttendance, tt.strictness)
			if got != tt.want {
				t.Errorf("Project() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
