package links

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatWithoutMessageHasNoQuery(t *testing.T) {
	link := Chat("+56 9 1234-5678", "")
	assert.Equal(t, "https://wa.me/56912345678", link)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.True(t, u.IsAbs())
	assert.Empty(t, u.RawQuery)
}

func TestChatMessageRoundTrips(t *testing.T) {
	for _, msg := range []string{
		"hello world",
		"Hola, me interesa la propiedad A1 (Casa) en X. ¿Me compartes más info?",
		"a+b & c=d?#",
	} {
		link := Chat("56912345678", msg)
		u, err := url.Parse(link)
		require.NoError(t, err)
		assert.True(t, u.IsAbs())
		assert.Equal(t, "/56912345678", u.Path)
		assert.Equal(t, msg, u.Query().Get("text"))
	}
}

func TestChatEncodesSpacesAsPercent(t *testing.T) {
	assert.Equal(t, "https://wa.me/1?text=hello%20world", Chat("1", "hello world"))
}

func TestChatWithoutDigitsIsStillAbsolute(t *testing.T) {
	u, err := url.Parse(Chat("n/a", "hi"))
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
}

func TestTelAndMail(t *testing.T) {
	assert.Equal(t, "tel:+56912345678", Tel("+56 9 1234 5678"))
	assert.Equal(t, "tel:+5622", Tel("+56 22\t"))
	assert.Equal(t, "mailto:hola@corretajesur.cl", Mail(" hola@corretajesur.cl "))
}
