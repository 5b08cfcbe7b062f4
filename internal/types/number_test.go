package types

import "testing"

func TestIsFloat(t *testing.T) {
	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"int", IsFloat[int](), false},
		{"int64", IsFloat[int64](), false},
		{"uint8", IsFloat[uint8](), false},
		{"float32", IsFloat[float32](), true},
		{"float64", IsFloat[float64](), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("IsFloat = %v, want %v", tt.got, tt.want)
			}
		})
	}
}
