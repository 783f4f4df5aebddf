package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/nova/pkg/errors"
)

type event struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Tags  []string `json:"tags,omitempty"`
	Score float64  `json:"score"`
}

func TestJSONRoundTripInt(t *testing.T) {
	c := JSON[int]()
	for _, v := range []int{0, 1, -7, 1 << 30} {
		encoded, err := c.EncodeToText(v)
		require.NoError(t, err)
		decoded, err := c.DecodeFromText(encoded)
		require.NoError(t, err)
		assert.Equal(t, v, decoded)
	}
}

func TestJSONRoundTripStruct(t *testing.T) {
	c := JSON[event]()
	in := event{ID: 42, Name: "login", Tags: []string{"auth", "web"}, Score: 0.25}

	encoded, err := c.EncodeToText(in)
	require.NoError(t, err)
	assert.NotContains(t, encoded, "\n")

	out, err := c.DecodeFromText(encoded)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestJSONEncodingIsDeterministic(t *testing.T) {
	c := JSON[event]()
	in := event{ID: 1, Name: "x"}

	first, err := c.EncodeToText(in)
	require.NoError(t, err)
	second, err := c.EncodeToText(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	c := JSON[event]()

	_, err := c.DecodeFromText("not base64 at all!!")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDecode))

	// valid base64, invalid JSON
	_, err = c.DecodeFromText("bm90IGpzb24=")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDecode))
}

func TestCodecName(t *testing.T) {
	assert.True(t, strings.HasPrefix(JSON[int]().Name(), "json"))
}
