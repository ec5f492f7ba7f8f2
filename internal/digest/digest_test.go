package digest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasher_Deterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	h1 := New()
	_, err := h1.Write(data)
	require.NoError(t, err)

	h2 := New()
	_, err = h2.Write(data)
	require.NoError(t, err)

	require.Equal(t, h1.Sum(), h2.Sum())
}

func TestHasher_StreamingMatchesOneShot(t *testing.T) {
	data := []byte("streaming vs one-shot should agree")

	h := New()
	_, _ = h.Write(data[:10])
	_, _ = h.Write(data[10:])

	require.Equal(t, Sum256(data), h.Sum())
}

func TestSum256_DifferentInputsDiffer(t *testing.T) {
	require.NotEqual(t, Sum256([]byte("a")), Sum256([]byte("b")))
}

func TestSum256_EmptyInput(t *testing.T) {
	sum := Sum256(nil)
	require.Equal(t, Size, len(sum))
}
