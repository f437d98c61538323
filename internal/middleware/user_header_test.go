package middleware

import "testing"

func TestPrincipalID(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want uint64
		ok   bool
	}{
		{"uint64", uint64(42), 42, true},
		{"float64 from JWT claim", float64(42), 42, true},
		{"numeric string", "42", 42, true},
		{"garbage string", "not-a-number", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := principalID(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("%s: principalID(%v) = (%v, %v), want (%v, %v)", tc.name, tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
