package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	cases := []struct {
		input string
		want  int32
	}{
		{"$20", 2000},
		{"$0.50", 50},
		{"$-3", 300}, // sign is dropped, costs are magnitudes
		{"1h 30m", 900},
		{"1h30m", 900},
		{"90", 900},
		{"1d", 14400},
		{"2D 1H", 29400},
		{"  45m  ", 450},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseValue(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseValueRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "soon", "$twenty", "h30", "-5"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseValue(input)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, input, parseErr.Input)
		})
	}
}
