package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeParticipants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []int64
	}{
		{"empty", "", []int64{}},
		{"array of numbers", "[1, 2, 3]", []int64{1, 2, 3}},
		{"array of strings", `["4", "5"]`, []int64{4, 5}},
		{"string-encoded array", `"[6, 7]"`, []int64{6, 7}},
		{"duplicates dropped", "[1, 2, 1]", []int64{1, 2}},
		{"malformed", "[1, 2", []int64{}},
		{"not an array", `{"a": 1}`, []int64{}},
		{"non-numeric id", `["x"]`, []int64{}},
		{"bare counter", "3", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeParticipants(tt.raw))
		})
	}
}
