package hexutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	require.Equal(t, "0x", Encode(nil))
	require.Equal(t, "0x00ff0a", Encode([]byte{0x00, 0xff, 0x0a}))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr error
	}{
		{"prefixed", "0x00ff0a", []byte{0x00, 0xff, 0x0a}, nil},
		{"bare", "00ff0a", []byte{0x00, 0xff, 0x0a}, nil},
		{"empty", "0x", []byte{}, nil},
		{"odd", "0xabc", nil, ErrOddLength},
		{"upper", "0xABCD", nil, ErrNotLowercase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := Decode("0xzz")
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	b := []byte{0xde, 0xad, 0xbe, 0xef, 0x01}
	got, err := Decode(Encode(b))
	require.NoError(t, err)
	require.Equal(t, b, got)
}
