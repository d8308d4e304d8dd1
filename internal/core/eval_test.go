package core

import (
	"math"
	"testing"
)

func TestEvalExpr(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"3+4*2", 11},
		{"-5+2", -3},
		{"10/0", 0},
		{"", 0},
		{"1.5*2", 3},
		{"2+3*4-1", 13},
		{"10-2-3", 5},       // left associative
		{"20/2/5", 2},       // left associative
		{"3*-2", -6},        // unary after operator
		{"--5", 5},          // stacked unary
		{"-5*-5", 25},
		{" 1 + 2 ", 3},      // whitespace stripped
		{"0.1+0.2", 0.3},    // rounded to 2dp
		{"5/3", 1.67},       // half away from zero on the scaled value
		{"-5/3", -1.67},
		{"7", 7},
		{".5+.5", 1},
		{"+", 0},            // operator only
		{"abc", 0},          // no valid tokens
		{"1/0+5", 5},        // div-by-zero clamps that term only
		{"100*0", 0},
	}
	for _, tc := range cases {
		if got := EvalExpr(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%q: expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestEvalExprNeverPanics(t *testing.T) {
	inputs := []string{"***", "1++", "/5", "1.2.3", "-", "5..2", "1-*2"}
	for _, in := range inputs {
		got := EvalExpr(in) // must degrade to some number, not panic
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("%q: non-finite result %v", in, got)
		}
	}
}

func TestSafeRound(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.125, 1.13}, // half away from zero
		{-1.125, -1.13},
		{2.344, 2.34},
		{2.345, 2.35},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
	}
	for i, tc := range cases {
		if got := SafeRound(tc.in); got != tc.want {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, got)
		}
	}
}
