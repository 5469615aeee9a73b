package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestNormalizeEmployeeCode(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{" 9981 ", "9981"},
		{"ab12", "AB12"},
		{"\tX001\n", "X001"},
	}
	for _, c := range cases {
		got := NormalizeEmployeeCode(c.input)
		if got != c.want {
			t.Errorf("NormalizeEmployeeCode(%q) = %q, want %q", c.input, got, c.want)
		}
	}
}

func TestIsValidEmployeeCode(t *testing.T) {
	valid := []string{"9981", "E123", "ABC", "A1B2C3D4E5"}
	invalid := []string{"", "12", "abc", "99 81", "A1B2C3D4E5F", "99-81"}
	for _, code := range valid {
		if !IsValidEmployeeCode(code) {
			t.Errorf("IsValidEmployeeCode(%q) = false, want true", code)
		}
	}
	for _, code := range invalid {
		if IsValidEmployeeCode(code) {
			t.Errorf("IsValidEmployeeCode(%q) = true, want false", code)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2024-01-15"); !ok {
		t.Error("IsValidDate(2024-01-15) = false, want true")
	}
	for _, s := range []string{"15-01-2024", "2024/01/15", "2024-13-01", ""} {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	valid := []string{"2024-01-15T10:30:00Z", "2024-01-15T10:30:00+07:00"}
	invalid := []string{"2024-01-15 10:30:00", "2024-01-15", ""}
	for _, s := range valid {
		if _, ok := IsValidDateTime(s); !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDateTime(s); ok {
			t.Errorf("IsValidDateTime(%q) = true, want false", s)
		}
	}
}
