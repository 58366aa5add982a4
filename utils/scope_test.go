package utils

import "testing"

func TestEffectiveBranchFilter(t *testing.T) {
	cases := []struct {
		name      string
		role      string
		own       string
		requested string
		want      string
	}{
		{"admin sees everything by default", "admin", "", "", ""},
		{"admin can scope to any branch", "admin", "", "branch-a", "branch-a"},
		{"employee pinned to own branch", "employee", "branch-b", "", "branch-b"},
		{"employee cannot escape own branch", "employee", "branch-b", "branch-a", "branch-b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EffectiveBranchFilter(tc.role, tc.own, tc.requested); got != tc.want {
				t.Errorf("EffectiveBranchFilter(%q, %q, %q) = %q, want %q",
					tc.role, tc.own, tc.requested, got, tc.want)
			}
		})
	}
}
