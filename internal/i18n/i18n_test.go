package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocale(t *testing.T) {
	cases := map[string]string{
		"zh_CN.UTF-8": "zh",
		"zh-TW":       "zh",
		"en_US":       "en",
		"en":          "en",
		"C":           "en",
		"POSIX":       "en",
		"fr_FR":       "en",
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLocale(in), "locale %q", in)
	}
}

func TestTranslateSubstitution(t *testing.T) {
	require.NoError(t, Init())
	SetLanguage("en")

	got := T(MsgTrayStatus, map[string]interface{}{"Status": "running"})
	assert.Equal(t, "IPFS: running", got)
}

func TestTranslateUnknownKeyFallsBack(t *testing.T) {
	require.NoError(t, Init())
	assert.Equal(t, "no.such.key", T("no.such.key"))
}

func TestSetLanguage(t *testing.T) {
	require.NoError(t, Init())

	SetLanguage("zh_CN")
	assert.Equal(t, "zh", GetLanguage())

	SetLanguage("en")
	assert.Equal(t, "en", GetLanguage())
}
