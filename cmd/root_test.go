package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadInputFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a": 1}`), 0o600))

	doc, source, usedStdin, err := loadInput([]string{path})
	require.NoError(t, err)
	assert.False(t, usedStdin)
	assert.Equal(t, "doc.json", source)
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, doc)
}

func TestLoadInputMissingFile(t *testing.T) {
	_, _, _, err := loadInput([]string{filepath.Join(t.TempDir(), "absent.json")})
	require.Error(t, err)
	assert.ErrorContains(t, err, "load")
}

func TestLoadInputMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a": `), 0o600))

	_, _, _, err := loadInput([]string{path})
	assert.Error(t, err)
}

func TestLoadInputFromStdinPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString(`{"piped": true}`)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	orig := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = orig }()

	doc, source, usedStdin, err := loadInput(nil)
	require.NoError(t, err)
	assert.True(t, usedStdin)
	assert.Equal(t, "stdin", source)
	assert.Equal(t, map[string]interface{}{"piped": true}, doc)
}

func TestCliVersionString(t *testing.T) {
	s := cliVersionString()
	assert.Contains(t, s, "jex")
	assert.Contains(t, s, "commit")
}

func TestRootFlagDefaults(t *testing.T) {
	f := rootCmd.Flags()

	registered := map[string]*pflag.Flag{}
	f.VisitAll(func(fl *pflag.Flag) { registered[fl.Name] = fl })
	assert.Contains(t, registered, "log-level")
	assert.Contains(t, registered, "log-file")

	for name, def := range map[string]string{
		"expression":       ".",
		"indent":           "2",
		"max-depth":        "1000",
		"max-entries":      "50000",
		"debounce-ms":      "300",
		"suggestion-limit": "8",
		"no-hint":          "false",
	} {
		flag := f.Lookup(name)
		require.NotNil(t, flag, "flag %q not registered", name)
		assert.Equal(t, def, flag.DefValue, "flag %q default", name)
	}

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestVersionSubcommandRegistered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"version"})
	require.NoError(t, err)
	assert.Equal(t, "version", cmd.Name())
}
