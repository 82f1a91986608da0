package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestT_SubstitutesPlaceholders(t *testing.T) {
	tr := New(English)
	got := tr.T("toast.partialInvalid", map[string]string{"count": "2", "total": "5"})
	assert.Equal(t, "2 of 5 positions were skipped (invalid data).", got)
}

func TestT_UnknownKeyReturnsKey(t *testing.T) {
	assert.Equal(t, "does.not.exist", New(English).T("does.not.exist", nil))
	assert.Equal(t, "does.not.exist", New(Persian).T("does.not.exist", nil))
}

func TestT_FallsBackToEnglish(t *testing.T) {
	catalogs[English]["test.englishOnly"] = "only in english"
	defer delete(catalogs[English], "test.englishOnly")

	assert.Equal(t, "only in english", New(Persian).T("test.englishOnly", nil))
}

func TestT_UnusedPlaceholdersLeftAlone(t *testing.T) {
	got := New(English).T("error.client", map[string]string{"unrelated": "x"})
	assert.Equal(t, "The request was rejected (HTTP {status}).", got)
}

func TestNew_UnknownLanguageUsesDefault(t *testing.T) {
	tr := New("de")
	assert.Equal(t, DefaultLanguage, tr.Language())
	assert.False(t, tr.RTL())
	assert.True(t, New(Persian).RTL())
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalogs[English] {
		_, ok := catalogs[Persian][key]
		assert.True(t, ok, "missing fa translation for %s", key)
	}
}

func TestLanguagesAndNext(t *testing.T) {
	require.Equal(t, []string{English, Persian}, Languages())
	assert.Equal(t, Persian, Next(English))
	assert.Equal(t, English, Next(Persian))
	assert.Equal(t, DefaultLanguage, Next("xx"))
}

func TestFormatNumber(t *testing.T) {
	en := New(English)
	assert.Equal(t, "1,234.50", en.FormatNumber(1234.5, 2))
	assert.Equal(t, "-3", en.FormatNumber(-3, 0))
	assert.Equal(t, "12,000", en.FormatInt(12000))

	assert.NotEmpty(t, New(Persian).FormatNumber(1234.5, 2))
}
