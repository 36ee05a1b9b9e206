package student

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  Band
	}{
		{name: "empty", value: "", want: BandNone},
		{name: "blank", value: "   ", want: BandNone},
		{name: "non numeric", value: "зачёт", want: BandNone},
		{name: "absence word", value: "пропуск", want: BandAbsence},
		{name: "absence inside text", value: "Пропуск занятия", want: BandAbsence},
		{name: "null attendance", value: "н", want: BandAbsence},
		{name: "null attendance slash", value: "Н/Я", want: BandAbsence},
		{name: "excellent low edge", value: "4.5", want: BandExcellent},
		{name: "excellent", value: "5", want: BandExcellent},
		{name: "good high edge", value: "4.49", want: BandGood},
		{name: "good low edge", value: "3.5", want: BandGood},
		{name: "satisfactory low edge", value: "2.5", want: BandSatisfactory},
		{name: "bad low edge", value: "2.0", want: BandPoor},
		{name: "below scale", value: "1.9", want: BandNone},
		{name: "comma decimal", value: "4,7", want: BandExcellent},
		{name: "padded", value: " 3.6 ", want: BandGood},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.value); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseGrade(t *testing.T) {
	tests := []struct {
		value  string
		want   float64
		wantOk bool
	}{
		{value: "5", want: 5, wantOk: true},
		{value: "4,25", want: 4.25, wantOk: true},
		{value: " 3.5 ", want: 3.5, wantOk: true},
		{value: "н", wantOk: false},
		{value: "пропуск", wantOk: false},
		{value: "", wantOk: false},
		{value: "abc", wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := ParseGrade(tt.value)
			if ok != tt.wantOk || got != tt.want {
				t.Errorf("ParseGrade(%q) = (%v, %v), want (%v, %v)", tt.value, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}
