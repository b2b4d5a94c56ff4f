package main

import (
	"bytes"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func findStringFlag(t *testing.T, cmd *cli.Command, name string) *cli.StringFlag {
	t.Helper()
	for _, f := range cmd.Flags {
		if sf, ok := f.(*cli.StringFlag); ok && sf.Name == name {
			return sf
		}
	}
	t.Fatalf("command %s has no string flag %s", cmd.Name, name)
	return nil
}

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("app has no command %s", name)
	return nil
}

func TestAnalyzeCommandFlags(t *testing.T) {
	app := newApp()
	cmd := findCommand(t, app, "analyze")

	t.Run("db is required", func(t *testing.T) {
		assert.True(t, findStringFlag(t, cmd, "db").Required)
	})

	t.Run("corpus is required", func(t *testing.T) {
		assert.True(t, findStringFlag(t, cmd, "corpus").Required)
	})

	t.Run("requester defaults to default", func(t *testing.T) {
		assert.Equal(t, "default", findStringFlag(t, cmd, "requester").Value)
	})

	t.Run("token reads OPENAI_API_KEY", func(t *testing.T) {
		assert.Equal(t, []string{"OPENAI_API_KEY"}, findStringFlag(t, cmd, "token").EnvVars)
	})

	t.Run("top-k defaults to 5", func(t *testing.T) {
		for _, f := range cmd.Flags {
			if intFlag, ok := f.(*cli.IntFlag); ok && intFlag.Name == "top-k" {
				assert.Equal(t, 5, intFlag.Value)
				return
			}
		}
		t.Fatal("top-k flag not found")
	})

	t.Run("cache-threshold defaults to 0.85", func(t *testing.T) {
		for _, f := range cmd.Flags {
			if floatFlag, ok := f.(*cli.Float64Flag); ok && floatFlag.Name == "cache-threshold" {
				assert.Equal(t, 0.85, floatFlag.Value)
				return
			}
		}
		t.Fatal("cache-threshold flag not found")
	})

	t.Run("missing db is an error", func(t *testing.T) {
		err := newApp().Run([]string{"patentguard", "analyze", "--corpus", "/tmp/corpus.json", "idea"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})
}

func TestHistoryCommand_EmptyStore(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	dbPath := filepath.Join(t.TempDir(), "history_db")
	err := app.Run([]string{"patentguard", "history", "--db", dbPath, "--requester", "alice"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "no stored analyses")
}

func TestClearHistoryCommand_EmptyStore(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	dbPath := filepath.Join(t.TempDir(), "history_db")
	err := app.Run([]string{"patentguard", "clear-history", "--db", dbPath, "--requester", "alice"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "removed 0 entries")
}

func TestIndexCommand(t *testing.T) {
	corpus := `[
		{"id": "US-1111-A1", "title": "Bicycle frame", "abstract": "A frame.", "claims": "1. A frame."},
		{"id": "US-2222-B2", "title": "Neural network", "abstract": "A network.", "claims": "1. A method."}
	]`
	corpusPath := filepath.Join(t.TempDir(), "corpus.json")
	require.NoError(t, os.WriteFile(corpusPath, []byte(corpus), 0644))

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	err := app.Run([]string{"patentguard", "index", "--corpus", corpusPath})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "indexed 2 documents")
}

func TestIndexCommand_RejectsBadCorpus(t *testing.T) {
	corpusPath := filepath.Join(t.TempDir(), "corpus.json")
	require.NoError(t, os.WriteFile(corpusPath, []byte(`[{"title": "no id"}]`), 0644))

	app := newApp()
	app.Writer = &bytes.Buffer{}

	err := app.Run([]string{"patentguard", "index", "--corpus", corpusPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no id")
}

func TestSetupLogger(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	makeContext := func(level string) *cli.Context {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.String("log-level", level, "")
		return cli.NewContext(newApp(), set, nil)
	}

	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
			assert.NoError(t, setupLogger(makeContext(level)), "level %s", level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		err := setupLogger(makeContext("verbose"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a long ...", truncate("a long string that keeps going", 10))

	// Multi-byte runes must not be split
	assert.Equal(t, "특허침해...", truncate("특허침해분석요청서류", 7))
	assert.Equal(t, "특허침해분석요청서류", truncate("특허침해분석요청서류", 10))
}
