package setup

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chtmp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestRunWritesEnvFile(t *testing.T) {
	chtmp(t)

	in := strings.NewReader("\npostgres://localhost/rfp\ngemini-key\n")
	var out bytes.Buffer
	require.NoError(t, Run(in, &out))

	content, err := os.ReadFile("local.env")
	require.NoError(t, err)
	assert.Equal(t, "PORT=5000\nDATABASE_URL=postgres://localhost/rfp\nGEMINI_API_KEY=gemini-key\n", string(content))
}

func TestRunReprompsOnMissingRequiredValue(t *testing.T) {
	chtmp(t)

	// Empty DSN once, then a real one
	in := strings.NewReader("8080\n\npostgres://localhost/rfp\ngemini-key\n")
	var out bytes.Buffer
	require.NoError(t, Run(in, &out))

	assert.Contains(t, out.String(), "Required.")

	content, err := os.ReadFile("local.env")
	require.NoError(t, err)
	assert.Contains(t, string(content), "PORT=8080\n")
}

func TestRunSkipsWhenConfigExists(t *testing.T) {
	chtmp(t)
	require.NoError(t, os.WriteFile("local.env", []byte("PORT=1234\n"), 0600))

	var out bytes.Buffer
	require.NoError(t, Run(strings.NewReader(""), &out))

	assert.Contains(t, out.String(), "already exists")
	content, _ := os.ReadFile("local.env")
	assert.Equal(t, "PORT=1234\n", string(content))
}
