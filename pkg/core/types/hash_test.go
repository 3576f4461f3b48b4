package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashBase58RoundTrip(t *testing.T) {
	var h Hash
	for i := range h {
		h[i] = byte(i)
	}
	decoded, err := HashFromBase58(h.Base58())
	require.NoError(t, err)
	require.Equal(t, h, decoded)
	require.Equal(t, h.Base58(), h.String())
}

func TestHashFromBytesWrongLength(t *testing.T) {
	_, err := HashFromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestHashIsZero(t *testing.T) {
	var h Hash
	require.True(t, h.IsZero())
	h[0] = 1
	require.False(t, h.IsZero())
}

func TestSum256ConcatDeterministic(t *testing.T) {
	a := Sum256Concat([]byte("foo"), []byte("bar"))
	b := Sum256Concat([]byte("foo"), []byte("bar"))
	require.Equal(t, a, b)

	c := Sum256Concat([]byte("foobar"))
	require.NotEqual(t, a, c, "concatenation boundary must affect the hash")
}

func TestBase58Codec(t *testing.T) {
	raw := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	encoded := EncodeBase58(raw)
	decoded, err := DecodeBase58(encoded)
	require.NoError(t, err)
	require.Equal(t, raw, decoded)
}
