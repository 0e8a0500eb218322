package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMangaReleaseYear(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want *FlexString
	}{
		{"string", `{"release_year":"2019"}`, flex("2019")},
		{"number", `{"release_year":2021}`, flex("2021")},
		{"null", `{"release_year":null}`, nil},
		{"absent", `{}`, nil},
		{"unexpected kind", `{"release_year":true}`, flex("")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var m Manga
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &m))
			assert.Equal(t, tc.want, m.ReleaseYear)
		})
	}
}

func flex(s string) *FlexString {
	f := FlexString(s)
	return &f
}
