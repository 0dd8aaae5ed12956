package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	tok, err := Encode(Cursor{Offset: 40})
	require.NoError(t, err)

	c, err := Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, 40, c.Offset)

	c, err = Decode("")
	require.NoError(t, err)
	assert.Equal(t, Cursor{}, c)
}

func TestDecodeInvalid(t *testing.T) {
	for _, tok := range []string{"***", "bm90LWpzb24=", "eyJvZmZzZXQiOi0xfQ=="} {
		_, err := Decode(tok)
		assert.Error(t, err, tok)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Page{Limit: DefaultLimit}, Normalize(0, -3))
	assert.Equal(t, Page{Limit: MaxLimit, Offset: 10}, Normalize(500, 10))
	assert.Equal(t, Page{Limit: 5, Offset: 2}, Normalize(5, 2))
}

func TestPageNext(t *testing.T) {
	p := Normalize(5, 10)
	assert.Empty(t, p.Next(3))

	tok := p.Next(5)
	require.NotEmpty(t, tok)
	c, err := Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, 15, c.Offset)
}
