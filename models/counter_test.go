package models

import "testing"

func TestFormatSequence(t *testing.T) {
	cases := []struct {
		prefix string
		value  int64
		want   string
	}{
		{BookingNumberPrefix, 1, "INV0001"},
		{BookingNumberPrefix, 42, "INV0042"},
		{BranchNumberPrefix, 3, "BRANCH0003"},
		{EmployeeNumberPrefix, 120, "EMP0120"},
		{BookingNumberPrefix, 12345, "INV12345"},
	}
	for _, tc := range cases {
		if got := FormatSequence(tc.prefix, tc.value); got != tc.want {
			t.Errorf("FormatSequence(%q, %d) = %q, want %q", tc.prefix, tc.value, got, tc.want)
		}
	}
}
