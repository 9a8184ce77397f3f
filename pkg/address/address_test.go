package address

import "testing"

func TestRoundTrip(t *testing.T) {
	for x := 0; x <= 0xFFFF; x++ {
		a := Address(x)
		if got := FromLoHi(Lo(a), Hi(a)); got != a {
			t.Fatalf("FromLoHi(Lo(0x%04X), Hi(0x%04X)) = 0x%04X", a, a, got)
		}
		if got := FromHiLo(Hi(a), Lo(a)); got != a {
			t.Fatalf("FromHiLo(Hi(0x%04X), Lo(0x%04X)) = 0x%04X", a, a, got)
		}
	}
}

func TestByteSplit(t *testing.T) {
	tests := []struct {
		addr   Address
		lo, hi byte
	}{
		{0x0000, 0x00, 0x00},
		{0x00FF, 0xFF, 0x00},
		{0x0100, 0x00, 0x01},
		{0x800A, 0x0A, 0x80},
		{0xFFFF, 0xFF, 0xFF},
	}
	for _, tc := range tests {
		if got := Lo(tc.addr); got != tc.lo {
			t.Errorf("Lo(0x%04X) = 0x%02X; want 0x%02X", tc.addr, got, tc.lo)
		}
		if got := Hi(tc.addr); got != tc.hi {
			t.Errorf("Hi(0x%04X) = 0x%02X; want 0x%02X", tc.addr, got, tc.hi)
		}
	}
}

func TestSamePage(t *testing.T) {
	tests := []struct {
		a, b Address
		want bool
	}{
		{0x1000, 0x10FF, true},
		{0x10FF, 0x1100, false},
		{0x0000, 0x0000, true},
		{0xFFFF, 0x0000, false},
		{0x80F0, 0x8012, true},
	}
	for _, tc := range tests {
		if got := SamePage(tc.a, tc.b); got != tc.want {
			t.Errorf("SamePage(0x%04X, 0x%04X) = %v; want %v", tc.a, tc.b, got, tc.want)
		}
		if got := OnDifferentPages(tc.a, tc.b); got == tc.want {
			t.Errorf("OnDifferentPages(0x%04X, 0x%04X) = %v; want %v", tc.a, tc.b, got, !tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		radix   int
		want    Address
		wantErr bool
	}{
		{"$C000", 10, 0xC000, false},
		{"0xC000", 10, 0xC000, false},
		{"0X00ff", 10, 0x00FF, false},
		{"#49152", 16, 0xC000, false},
		{"49152", 10, 0xC000, false},
		{"C000", 16, 0xC000, false},
		{" $10 ", 16, 0x0010, false},
		{"1000", 16, 0x1000, false},
		{"1000", 10, 1000, false},
		{"C000", 10, 0, true},
		{"65536", 10, 0, true},
		{"$10000", 10, 0, true},
		{"$", 10, 0, true},
		{"#", 16, 0, true},
		{"-1", 10, 0, true},
		{"", 16, 0, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in, tt.radix)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q, %d) error = %v; wantErr %v", tt.in, tt.radix, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q, %d) = 0x%04X; want 0x%04X", tt.in, tt.radix, got, tt.want)
		}
	}
}
