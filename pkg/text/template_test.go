package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTemplate(t *testing.T) {
	tests := []struct {
		name      string
		tmpl      string
		want      string
		wantError string
	}{
		{name: "no_backslash", tmpl: "dark:text-gray-300", want: "dark:text-gray-300"},
		{name: "dollar_passthrough", tmpl: "a$1b${2}", want: "a$1b${2}"},
		{name: "numbered", tmpl: `text-gray-\1 dark`, want: "text-gray-${1} dark"},
		{name: "multi_digit", tmpl: `\12x`, want: "${12}x"},
		{name: "named", tmpl: `\g<shade>-x`, want: "${shade}-x"},
		{name: "escaped_backslash", tmpl: `a\\1`, want: `a\1`},
		{name: "other_escape_kept", tmpl: `a\nb`, want: `a\nb`},
		{name: "trailing_backslash", tmpl: `a\`, want: `a\`},
		{name: "unterminated_name", tmpl: `\g<abc`, wantError: "unterminated group reference"},
		{name: "empty_name", tmpl: `\g<>`, wantError: "empty group reference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTemplate(tt.tmpl)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
