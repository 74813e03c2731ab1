package apijson

import (
	"encoding/json"
	"testing"
)

func TestBigIntUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{`"123456789"`, "123456789", false},
		{`123456789`, "123456789", false},
		{`"0"`, "0", false},
		{`null`, "0", false},
		{`"1e21"`, "1000000000000000000000", false},
		{`"abc"`, "", true},
	}
	for _, tt := range tests {
		var b BigInt
		err := json.Unmarshal([]byte(tt.in), &b)
		if tt.wantErr {
			if err == nil {
				t.Errorf("unmarshal %s: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("unmarshal %s: %v", tt.in, err)
			continue
		}
		if b.String() != tt.want {
			t.Errorf("unmarshal %s = %s, want %s", tt.in, b.String(), tt.want)
		}
	}
}

func TestUint64Unmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{`"240000"`, 240000, false},
		{`240000`, 240000, false},
		{`"240000.5"`, 240000, false},
		{`null`, 0, false},
		{`"-1"`, 0, true},
	}
	for _, tt := range tests {
		var u Uint64
		err := json.Unmarshal([]byte(tt.in), &u)
		if tt.wantErr {
			if err == nil {
				t.Errorf("unmarshal %s: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("unmarshal %s: %v", tt.in, err)
			continue
		}
		if uint64(u) != tt.want {
			t.Errorf("unmarshal %s = %d, want %d", tt.in, u, tt.want)
		}
	}
}

func TestUint64Ptr(t *testing.T) {
	var zero Uint64
	if zero.Ptr() != nil {
		t.Error("zero gas should map to nil")
	}
	var g Uint64 = 21000
	p := g.Ptr()
	if p == nil || *p != 21000 {
		t.Errorf("Ptr() = %v", p)
	}
}
