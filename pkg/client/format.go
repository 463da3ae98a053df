package client

import (
	"io"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/rhuss/gencode/pkg/api"
)

// fencedBlock matches a markdown code fence with an optional typescript,
// javascript or tsx language tag.
var fencedBlock = regexp.MustCompile("```(?:typescript|javascript|tsx)?\\n([\\s\\S]*?)```")

// StripFences removes markdown code fences that leak into generated code
// despite the prompt, keeping the fenced contents, and trims surrounding
// whitespace. Unterminated fences are left alone so the function can be
// applied to a partial stream.
func StripFences(code string) string {
	return strings.TrimSpace(fencedBlock.ReplaceAllString(code, "$1"))
}

// DefaultStyle is the chroma style used by Highlight.
const DefaultStyle = "monokai"

// Highlight writes code to w with terminal syntax highlighting. The lexer
// defaults to tsx and style to DefaultStyle.
func Highlight(w io.Writer, code, lexer, style string) error {
	if lexer == "" {
		lexer = "tsx"
	}
	if style == "" {
		style = DefaultStyle
	}
	return quick.Highlight(w, code, lexer, "terminal256", style)
}

// NewRequest builds a first-turn generation request.
func NewRequest(model, prompt string) *api.GenerationRequest {
	return &api.GenerationRequest{
		ModelID:  model,
		Messages: []api.Message{{Role: api.RoleUser, Content: prompt}},
	}
}

// UpdateRequest builds the follow-up request for modifying previously
// generated code: the original prompt, the code as the assistant's answer,
// then the modification.
func UpdateRequest(model, prompt, code, modification string) *api.GenerationRequest {
	return &api.GenerationRequest{
		ModelID: model,
		Messages: []api.Message{
			{Role: api.RoleUser, Content: prompt},
			{Role: api.RoleAssistant, Content: code},
			{Role: api.RoleUser, Content: modification},
		},
	}
}
