package fundval

import "testing"

func TestMoney_Arithmetic(t *testing.T) {
	a, b := CNY(1000), CNY(250)

	if got := a.Add(b); !got.Equal(CNY(1250)) {
		t.Errorf("Add = %v, want 1250", got)
	}
	if got := a.Sub(b); !got.Equal(CNY(750)) {
		t.Errorf("Sub = %v, want 750", got)
	}
	if got := a.DivPrice(CNY(2)); !got.Equal(Q(500)) {
		t.Errorf("DivPrice = %v, want 500 shares", got)
	}
	if got := CNY(2.2).Mul(Q(500)); !got.Equal(CNY(1100)) {
		t.Errorf("Mul = %v, want 1100", got)
	}
	if got := a.Scale(1.0575); !got.Equal(CNY(1057.5)) {
		t.Errorf("Scale = %v, want 1057.50", got)
	}
}

func TestMoney_WeakEmptyCurrency(t *testing.T) {
	// The zero Money has no currency and must combine with any.
	var zero Money
	if got := zero.Add(CNY(10)); got.Currency() != DefaultCurrency {
		t.Errorf("currency = %q, want %q", got.Currency(), DefaultCurrency)
	}
}

func TestMoney_PercentOf(t *testing.T) {
	if got := CNY(100).PercentOf(CNY(1000)); !got.Equal(Percent(10)) {
		t.Errorf("PercentOf = %v, want 10%%", got)
	}
	// A zero base has no meaningful percentage, never 0%.
	if got := CNY(100).PercentOf(CNY(0)); !got.IsNA() {
		t.Errorf("PercentOf zero base = %v, want N/A", got)
	}
}

func TestMoney_SignedString(t *testing.T) {
	testCases := []struct {
		in   Money
		want string
	}{
		{CNY(0), "-"},
		{CNY(10), "+" + CNY(10).String()},
		{CNY(-10), CNY(-10).String()},
	}
	for _, tc := range testCases {
		if got := tc.in.SignedString(); got != tc.want {
			t.Errorf("SignedString(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPercent_Strings(t *testing.T) {
	testCases := []struct {
		in         Percent
		str, signed string
	}{
		{Percent(5.75), "5.75%", "+5.75%"},
		{Percent(-3.2), "-3.20%", "-3.20%"},
		{Percent(0), "0.00%", "-"},
		{NoPercent(), "N/A", "N/A"},
	}
	for _, tc := range testCases {
		if got := tc.in.String(); got != tc.str {
			t.Errorf("String(%v) = %q, want %q", float64(tc.in), got, tc.str)
		}
		if got := tc.in.SignedString(); got != tc.signed {
			t.Errorf("SignedString(%v) = %q, want %q", float64(tc.in), got, tc.signed)
		}
	}
}
