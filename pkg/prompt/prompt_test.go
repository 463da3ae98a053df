package prompt

import (
	"reflect"
	"strings"
	"testing"

	"github.com/rhuss/gencode/pkg/api"
)

func TestCombine(t *testing.T) {
	got := Combine("SYS", "make a todo app")
	want := "SYS\n\nUser Prompt:\nmake a todo app\n\n" + NoFenceDirective
	if got != want {
		t.Errorf("Combine() = %q, want %q", got, want)
	}
}

func TestCombineOrder(t *testing.T) {
	got := Combine(System, "USER CONTENT")

	sysIdx := strings.Index(got, System)
	userIdx := strings.Index(got, "USER CONTENT")
	dirIdx := strings.LastIndex(got, NoFenceDirective)

	if sysIdx != 0 {
		t.Errorf("system prompt should start the combined prompt, found at %d", sysIdx)
	}
	if !(sysIdx < userIdx && userIdx < dirIdx) {
		t.Errorf("unexpected order: system=%d user=%d directive=%d", sysIdx, userIdx, dirIdx)
	}
	if !strings.HasSuffix(got, NoFenceDirective) {
		t.Error("combined prompt should end with the no-fence directive")
	}
}

func TestBuildUsesLastMessage(t *testing.T) {
	msgs := []api.Message{
		{Role: api.RoleUser, Content: "first"},
		{Role: api.RoleAssistant, Content: "code"},
		{Role: api.RoleUser, Content: "make it blue"},
	}

	p := Build(System, msgs)

	if p.System != System {
		t.Error("System should be passed through unchanged")
	}
	if p.Combined != Combine(System, "make it blue") {
		t.Errorf("Combined = %q", p.Combined)
	}
	if strings.Contains(p.Combined, "first") {
		t.Error("Combined should only carry the last message")
	}
	if !reflect.DeepEqual(p.Messages, msgs) {
		t.Errorf("Messages = %+v, want %+v", p.Messages, msgs)
	}
}

func TestNoFenceDirectiveForbidsFences(t *testing.T) {
	// Fence suppression is an instruction to the model, so the directive
	// must name the fences it forbids.
	for _, fence := range []string{"```typescript", "```javascript", "```tsx"} {
		if !strings.Contains(NoFenceDirective, fence) {
			t.Errorf("directive should mention %q", fence)
		}
	}
	if !strings.Contains(System, "DO NOT START WITH ```typescript") {
		t.Error("system prompt should forbid leading fences")
	}
}
