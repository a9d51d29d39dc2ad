package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []int
	}{
		{"array", `[1,2,3]`, []int{1, 2, 3}},
		{"items", `{"items":[4,5]}`, []int{4, 5}},
		{"items missing", `{"total":0}`, []int{}},
		{"null", `null`, []int{}},
		{"empty", ``, []int{}},
		{"scalar", `"nope"`, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeList[int](json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeToken(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"access_token", `{"access_token":"a"}`, "a"},
		{"token", `{"token":"b"}`, "b"},
		{"jwt", `{"jwt":"c"}`, "c"},
		{"string", `"d"`, "d"},
		{"first non-empty wins", `{"access_token":"","token":"e","jwt":"f"}`, "e"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeToken(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, raw := range []string{``, `{}`, `""`, `42`} {
		_, err := DecodeToken(json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrNoToken, raw)
	}
}
