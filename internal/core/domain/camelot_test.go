package domain

import "testing"

func TestCamelotFromKey(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
		ok    bool
	}{
		{name: "a minor", label: "A minor", want: "8A", ok: true},
		{name: "c major", label: "C Major", want: "8B", ok: true},
		{name: "compact minor", label: "Em", want: "9A", ok: true},
		{name: "sharp sign", label: "C♯ minor", want: "12A", ok: true},
		{name: "enharmonic sharp", label: "G# minor", want: "1A", ok: true},
		{name: "enharmonic flat", label: "Ab minor", want: "1A", ok: true},
		{name: "bare tonic is major", label: "F", want: "7B", ok: true},
		{name: "abbreviated mode", label: "Eb maj", want: "5B", ok: true},
		{name: "ten position", label: "B minor", want: "10A", ok: true},
		{name: "whitespace", label: "  d Minor ", want: "7A", ok: true},
		{name: "non key", label: "Atonal", ok: false},
		{name: "empty", label: "", ok: false},
		{name: "not a tonic", label: "H major", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CamelotFromKey(tt.label)
			if ok != tt.ok {
				t.Fatalf("CamelotFromKey(%q) ok = %v, want %v", tt.label, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("CamelotFromKey(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestCamelotFromKeyTotalOverWheel(t *testing.T) {
	// Every canonical entry must resolve to a valid wheel position.
	for label, want := range camelotWheel {
		got, ok := CamelotFromKey(label)
		if !ok || got != want {
			t.Fatalf("CamelotFromKey(%q) = %q, %v; want %q", label, got, ok, want)
		}
		if _, ok := ParseCamelot(got); !ok {
			t.Fatalf("wheel position %q does not parse", got)
		}
	}
}

func TestParseCamelot(t *testing.T) {
	tests := []struct {
		name string
		code string
		want CamelotPosition
		ok   bool
	}{
		{name: "simple", code: "8A", want: CamelotPosition{Number: 8, Letter: "A"}, ok: true},
		{name: "two digit", code: "12B", want: CamelotPosition{Number: 12, Letter: "B"}, ok: true},
		{name: "lowercase", code: "3b", want: CamelotPosition{Number: 3, Letter: "B"}, ok: true},
		{name: "zero position", code: "0A", ok: false},
		{name: "thirteen", code: "13A", ok: false},
		{name: "bad letter", code: "8C", ok: false},
		{name: "empty", code: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCamelot(tt.code)
			if ok != tt.ok {
				t.Fatalf("ParseCamelot(%q) ok = %v, want %v", tt.code, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("ParseCamelot(%q) = %+v, want %+v", tt.code, got, tt.want)
			}
		})
	}
}

func TestCamelotDistance(t *testing.T) {
	tests := []struct {
		name string
		a    int
		b    int
		want int
	}{
		{name: "same", a: 8, b: 8, want: 0},
		{name: "adjacent", a: 8, b: 9, want: 1},
		{name: "across the seam", a: 1, b: 12, want: 1},
		{name: "opposite side", a: 1, b: 7, want: 6},
		{name: "wraps the short way", a: 2, b: 11, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pa := CamelotPosition{Number: tt.a, Letter: "A"}
			pb := CamelotPosition{Number: tt.b, Letter: "A"}
			if got := CamelotDistance(pa, pb); got != tt.want {
				t.Fatalf("CamelotDistance(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			// Distance must be symmetric.
			if got := CamelotDistance(pb, pa); got != tt.want {
				t.Fatalf("CamelotDistance(%d, %d) = %d, want %d", tt.b, tt.a, got, tt.want)
			}
		})
	}
}
