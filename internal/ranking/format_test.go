package ranking

import (
	"errors"
	"testing"
)

func TestFormatTime(t *testing.T) {
	cases := []struct {
		ms       int64
		short    string
		detailed string
	}{
		{0, "00:00", "00:00.00"},
		{999, "00:00", "00:00.99"},
		{61_234, "01:01", "01:01.23"},
		{3_599_999, "59:59", "59:59.99"},
		{6_000_000, "100:00", "100:00.00"},
		{-5, "00:00", "00:00.00"},
	}
	for _, c := range cases {
		if got := FormatTime(c.ms); got != c.short {
			t.Errorf("FormatTime(%d) = %q, want %q", c.ms, got, c.short)
		}
		if got := FormatTimeDetailed(c.ms); got != c.detailed {
			t.Errorf("FormatTimeDetailed(%d) = %q, want %q", c.ms, got, c.detailed)
		}
	}
}

func TestParseTime(t *testing.T) {
	ms, err := ParseTime("02:05")
	if err != nil || ms != 125_000 {
		t.Fatalf("ParseTime = %d, %v", ms, err)
	}
	if ms, _ := ParseTime(FormatTime(61_234)); ms != 61_000 {
		t.Fatalf("round trip lost more than sub-second precision: %d", ms)
	}
	for _, bad := range []string{"", "5", "aa:bb", "01:60", "-1:00"} {
		if _, err := ParseTime(bad); !errors.Is(err, ErrInvalidTime) {
			t.Errorf("ParseTime(%q): expected ErrInvalidTime, got %v", bad, err)
		}
	}
}

func TestValidateNickname(t *testing.T) {
	if s, err := ValidateNickname(" 열글자닉네임입니다요 "); err != nil || s != "열글자닉네임입니다요" {
		t.Fatalf("10 runes should pass, got %q %v", s, err)
	}
	if _, err := ValidateNickname("abcdefghijk"); !errors.Is(err, ErrInvalidNickname) {
		t.Fatalf("11 runes should fail, got %v", err)
	}
}
