package lower_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/exalt-lang/exalt/internal/compiler/lower"
)

func TestDefaultRename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"getName", "get_name"},
		{"parseHTTPResponse", "parse_httpresponse"},
		{"value2Text", "value2_text"},
		{"already_snake", "already_snake"},
		{"X", "x"},
		{"", ""},
		{"end", "end_"},
		{"nil", "nil_"},
		{"doStuff", "do_stuff"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, lower.DefaultRename(tc.in), "input %q", tc.in)
	}
}

func TestDefaultRenameReservedAfterConversion(t *testing.T) {
	// "Do" converts to "do", which is reserved
	assert.Equal(t, "do_", lower.DefaultRename("Do"))
}
