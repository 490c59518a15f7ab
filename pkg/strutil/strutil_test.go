package strutil_test

import (
	"testing"

	"github.com/delaneyj/hasher/pkg/strutil"
	"github.com/stretchr/testify/assert"
)

func TestRemoveAccents(t *testing.T) {
	cases := map[string]string{
		"ação":           "acao",
		"Émile Zola":     "Emile Zola",
		"Æsir Øresund":   "AEsir Oresund",
		"straße":         "straBe",
		"no accents 123": "no accents 123",
	}
	for in, want := range cases {
		assert.Equal(t, want, strutil.RemoveAccents(in), in)
	}
}

func TestHyphenate(t *testing.T) {
	assert.Equal(t, "Lorem-Ipsum-dolor-Sit", strutil.Hyphenate("Lorem Ipsum dolorSit"))
	assert.Equal(t, "Sao-Paulo", strutil.Hyphenate("São  Paulo!"))
	assert.Equal(t, "ab", strutil.Hyphenate("a/b?"))
}
