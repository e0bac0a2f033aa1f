package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		addresses []string
		indices   []string
		i         int
		want      Node
	}{
		{
			name: "sequential",
			i:    2,
			want: Node{Identity: "2", GroupIndex: "1"},
		},
		{
			name:      "address with lower prefix",
			addresses: []string{"0xAB12", "0xCD34"},
			i:         0,
			want:      Node{Identity: "AB12", GroupIndex: "1"},
		},
		{
			name:      "address with upper prefix",
			addresses: []string{"0XAB12", "0XCD34"},
			i:         1,
			want:      Node{Identity: "CD34", GroupIndex: "1"},
		},
		{
			name:      "address without prefix",
			addresses: []string{"ab12"},
			i:         0,
			want:      Node{Identity: "ab12", GroupIndex: "1"},
		},
		{
			name:    "explicit group index",
			indices: []string{"3", "4"},
			i:       1,
			want:    Node{Identity: "1", GroupIndex: "4"},
		},
		{
			name:      "address and group index vary independently",
			addresses: []string{"0x01", "0x02"},
			indices:   []string{"7", "7"},
			i:         1,
			want:      Node{Identity: "02", GroupIndex: "7"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.addresses, tt.indices, tt.i))
		})
	}
}

func TestResolveAll(t *testing.T) {
	got := ResolveAll([]string{"0xAB12", "0xCD34"}, nil, 2)
	assert.Equal(t, []Node{
		{Identity: "AB12", GroupIndex: "1"},
		{Identity: "CD34", GroupIndex: "1"},
	}, got)

	assert.Empty(t, ResolveAll(nil, nil, 0))
}

func TestTrimHexPrefix(t *testing.T) {
	assert.Equal(t, "", TrimHexPrefix("0x"))
	assert.Equal(t, "0x12", TrimHexPrefix("0x0x12"))
	assert.Equal(t, "x12", TrimHexPrefix("x12"))
}
