package services

import "testing"

func TestIsTenDigits(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"0912345678", true},
		{"1234567890", true},
		{"091234567", false},   // 9 chữ số
		{"09123456789", false}, // 11 chữ số
		{"091234567a", false},  // chứa chữ
		{"09123 5678", false},  // chứa khoảng trắng
		{"", false},
	}
	for _, c := range cases {
		if got := isTenDigits(c.input); got != c.want {
			t.Errorf("isTenDigits(%q) = %v, muốn %v", c.input, got, c.want)
		}
	}
}
