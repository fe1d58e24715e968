package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestRoundTripCompatibility(t *testing.T) {
	type payload struct {
		Shape []int     `json:"shape"`
		Data  []float32 `json:"data"`
	}
	in := payload{Shape: []int{2, 3}, Data: []float32{1, 2, 3, 4, 5, 6}}

	for _, enc := range []Codec{JSON{}, GoJSON{}} {
		for _, dec := range []Codec{JSON{}, GoJSON{}} {
			b, err := enc.Marshal(in)
			require.NoError(t, err)

			var out payload
			require.NoError(t, dec.Unmarshal(b, &out))
			assert.Equal(t, in, out, "%s -> %s", enc.Name(), dec.Name())
		}
	}
}
