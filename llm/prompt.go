package llm

import "strings"

const promptTemplate = `Your task is to filter and convert HTML content into clean, focused markdown that's optimized for use with LLMs and information retrieval systems.

TASK DETAILS:
1. Content Selection
- DO: Keep essential information, main content, key details
- DO: Preserve hierarchical structure using markdown headers
- DO: Keep code blocks, tables, key lists
- DON'T: Include navigation menus, ads, footers, cookie notices
- DON'T: Keep social media widgets, sidebars, related content

2. Content Transformation
- DO: Use proper markdown syntax (#, ##, **, ` + "`" + `, etc)
- DO: Convert tables to markdown tables
- DO: Preserve code formatting with ` + "```" + `language blocks
- DO: Maintain link texts but remove tracking parameters
- DON'T: Include HTML tags in output
- DON'T: Keep class names, ids, or other HTML attributes

3. Content Organization
- DO: Maintain logical flow of information
- DO: Group related content under appropriate headers
- DO: Use consistent header levels
- DON'T: Fragment related content
- DON'T: Duplicate information

IMPORTANT: If user specific instruction is provided, ignore above guideline and prioritize those requirements over these general guidelines.

OUTPUT FORMAT:
Wrap your response in <content> tags. Use proper markdown throughout.
<content>
[Your markdown content here]
</content>

Begin filtering now.

--------------------------------------------

<|HTML_CONTENT_START|>
{HTML}
<|HTML_CONTENT_END|>

<|USER_INSTRUCTION_START|>
{REQUEST}
<|USER_INSTRUCTION_END|>
`

// BuildPrompt embeds an HTML chunk and the user instruction in the
// filtering prompt. Placeholders inside the chunk are left alone.
func BuildPrompt(chunk, instruction string) string {
	return strings.NewReplacer("{HTML}", chunk, "{REQUEST}", instruction).Replace(promptTemplate)
}

const (
	contentOpen  = "<content>"
	contentClose = "</content>"
)

// ExtractContent returns the trimmed text between <content> and the next
// </content>. Responses without both tags are returned unchanged.
func ExtractContent(response string) string {
	start := strings.Index(response, contentOpen)
	if start < 0 {
		return response
	}
	rest := response[start+len(contentOpen):]
	end := strings.Index(rest, contentClose)
	if end < 0 {
		return response
	}
	return strings.TrimSpace(rest[:end])
}
