package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/distill/cmd/distill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with args and returns what it printed.
func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	m := main.NewMain()
	m.Stdin = strings.NewReader(stdin)
	var out, errOut bytes.Buffer
	err = m.Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

// writeFile writes content to name inside a fresh temp dir.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	t.Run("lists every command", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, "", "--help")

		require.NoError(t, err)
		for _, cmd := range []string{"filter", "extract", "entities", "crawl", "serve"} {
			assert.Contains(t, stdout, cmd, "Help should mention %s command", cmd)
		}
	})

	t.Run("fails without a command", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout, "filter")
	})

	t.Run("rejects unknown commands", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, "", "summarize")

		require.Error(t, err)
	})
}

func TestCLI_Token(t *testing.T) {
	t.Parallel()

	t.Run("uses the vendor variable for the provider", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{OpenAIKey: "sk-openai", GeminiKey: "gm-key"}

		assert.Equal(t, "gm-key", cli.Token("gemini/gemini-2.5-flash"))
		assert.Equal(t, "sk-openai", cli.Token("openai/gpt-4o-mini"))
		assert.Equal(t, "sk-openai", cli.Token("llama3"))
	})

	t.Run("an explicit token wins", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{APIToken: "tok", OpenAIKey: "sk-openai", GeminiKey: "gm-key"}

		assert.Equal(t, "tok", cli.Token("gemini/gemini-2.5-flash"))
		assert.Equal(t, "tok", cli.Token("openai/gpt-4o-mini"))
	})
}

func TestYAMLLoader(t *testing.T) {
	t.Parallel()

	type cli struct {
		Rate float64
		Name string
		Tags []string
		Sub  struct {
			MaxItems int `name:"max-items"`
		} `cmd:""`
	}

	config := writeFile(t, "distill.yaml", `
rate: 2.5
name: from-file
tags: [a, b]
max_items: 3
sub:
  max-items: 7
`)

	parse := func(t *testing.T, args ...string) *cli {
		t.Helper()
		var c cli
		parser, err := kong.New(&c,
			kong.Exit(func(int) {}),
			kong.Configuration(main.YAMLLoader, config),
		)
		require.NoError(t, err)
		_, err = parser.Parse(args)
		require.NoError(t, err)
		return &c
	}

	t.Run("fills unset flags from the file", func(t *testing.T) {
		t.Parallel()

		c := parse(t, "sub")

		assert.InEpsilon(t, 2.5, c.Rate, 1e-9)
		assert.Equal(t, "from-file", c.Name)
		assert.Equal(t, []string{"a", "b"}, c.Tags)
	})

	t.Run("command sections win over top-level keys", func(t *testing.T) {
		t.Parallel()

		c := parse(t, "sub")

		assert.Equal(t, 7, c.Sub.MaxItems)
	})

	t.Run("flags win over the file", func(t *testing.T) {
		t.Parallel()

		c := parse(t, "--name", "from-flag", "sub", "--max-items", "9")

		assert.Equal(t, "from-flag", c.Name)
		assert.Equal(t, 9, c.Sub.MaxItems)
	})

	t.Run("rejects malformed YAML", func(t *testing.T) {
		t.Parallel()

		_, err := main.YAMLLoader(strings.NewReader("rate: [unclosed"))

		require.Error(t, err)
	})

	t.Run("accepts an empty document", func(t *testing.T) {
		t.Parallel()

		r, err := main.YAMLLoader(strings.NewReader(""))

		require.NoError(t, err)
		assert.NotNil(t, r)
	})
}
