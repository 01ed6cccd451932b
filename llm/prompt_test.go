package llm_test

import (
	"testing"

	"github.com/fwojciec/distill/llm"
	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	prompt := llm.BuildPrompt("<p>{REQUEST}</p>", "Only keep recipes.")

	assert.Contains(t, prompt, "<|HTML_CONTENT_START|>\n<p>{REQUEST}</p>\n<|HTML_CONTENT_END|>")
	assert.Contains(t, prompt, "<|USER_INSTRUCTION_START|>\nOnly keep recipes.\n<|USER_INSTRUCTION_END|>")
	assert.Contains(t, prompt, "Wrap your response in <content> tags.")
}

func TestExtractContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"extracts and trims tagged content", "Here:\n<content>\n# Doc\n</content>\nBye", "# Doc"},
		{"returns untagged response unchanged", "  # Doc  ", "  # Doc  "},
		{"requires a closing tag", "<content># Doc", "<content># Doc"},
		{"ignores a closing tag before the opening tag", "</content> x <content>y", "</content> x <content>y"},
		{"stops at the first closing tag", "<content>a</content>b</content>", "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, llm.ExtractContent(tt.response))
		})
	}
}
