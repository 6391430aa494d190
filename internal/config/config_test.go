package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.ListenAddr)
	assert.Equal(t, 32, c.MaxUploadMB)
	assert.Equal(t, 30, c.Bins)
	assert.Equal(t, 1.5, c.IQRMultiplier)
	assert.Equal(t, 5, c.SampleRows)
	assert.Equal(t, ",", c.CSVDelimiter)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bins: 12\ncsv_delimiter: \";\"\nna_values: [\"-\", \"?\"]\n"), 0o644))
	t.Setenv("EDASCOPE_SAMPLE_ROWS", "9")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, c.Bins)
	assert.Equal(t, ";", c.CSVDelimiter)
	assert.Equal(t, []string{"-", "?"}, c.NAValues)
	assert.Equal(t, 9, c.SampleRows)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bins: 0\n"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "bins")
}

func TestSetSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)

	require.NoError(t, c.Set("bins", "40"))
	require.NoError(t, c.Set("na_values", "n.d., -- ,"))
	require.NoError(t, c.Set("csv_delimiter", "tab"))
	require.NoError(t, c.Set("log_format", "JSON"))
	assert.Error(t, c.Set("bins", "zero"))
	assert.Error(t, c.Set("iqr_multiplier", "-1"))
	assert.Error(t, c.Set("decimal_separator", "::"))
	assert.Error(t, c.Set("nope", "1"))

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, Save(c, path))
	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, back.Bins)
	assert.Equal(t, []string{"n.d.", "--"}, back.NAValues)
	assert.Equal(t, "json", back.LogFormat)

	got, ok := back.Get("csv_delimiter")
	require.True(t, ok)
	assert.Equal(t, "tab", got)
	for _, k := range Keys {
		_, ok := back.Get(k)
		assert.True(t, ok, k)
	}
}

func TestParseDelimiterAndSeparator(t *testing.T) {
	for in, want := range map[string]rune{"": ',', "semicolon": ';', "\\t": '\t', "|": '|', ":": ':'} {
		got, err := ParseDelimiter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDelimiter("ab")
	assert.Error(t, err)

	r, err := ParseSeparator("auto")
	require.NoError(t, err)
	assert.Equal(t, rune(0), r)
	for in, want := range map[string]rune{"space": ' ', "comma": ',', "Dot": '.', ",": ','} {
		r, err = ParseSeparator(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, r, in)
	}
}

func TestSetAcceptsSeparatorNames(t *testing.T) {
	c := Default()
	require.NoError(t, c.Set("decimal_separator", "comma"))
	require.NoError(t, c.Set("thousands_separator", "dot"))
	require.NoError(t, c.Validate())

	path := filepath.Join(t.TempDir(), "eu.yaml")
	require.NoError(t, Save(c, path))
	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "comma", back.DecimalSeparator)
}
