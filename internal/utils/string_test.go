package utils

import "testing"

func TestIsValidQuery(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"London", true},
		{"new york", true},
		{"saint-denis", true},
		{"'s-gravenhage", true},
		{"Montréal", true},
		{"", false},
		{"12345", false},
		{"aaaa", false},
		{"zzz", false},
		{"aa", true},
		{"lon@don", false},
		{"<script>", false},
		{"san jose 95", true},
	}
	for _, c := range cases {
		if got := IsValidQuery(c.input); got != c.want {
			t.Errorf("IsValidQuery(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsOnlyNumbers(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"123", true},
		{"0", true},
		{"", false},
		{"12a", false},
		{"a12", false},
	}
	for _, c := range cases {
		if got := IsOnlyNumbers(c.input); got != c.want {
			t.Errorf("IsOnlyNumbers(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsRepetitive(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"aaa", true},
		{"aa", false},
		{"aab", false},
		{"abc", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsRepetitive(c.input); got != c.want {
			t.Errorf("IsRepetitive(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsQuerySeparator(t *testing.T) {
	for _, r := range []rune{' ', '-', '.', '\'', ','} {
		if !IsQuerySeparator(r) {
			t.Errorf("expected %q to be a separator", r)
		}
	}
	for _, r := range []rune{'a', '0', '@', 'é'} {
		if IsQuerySeparator(r) {
			t.Errorf("expected %q not to be a separator", r)
		}
	}
}
