package router

// Model is one entry of the model catalogue served to clients.
type Model struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// DefaultModelID is the model clients select when the user has no preference.
const DefaultModelID = "gemini-2.0-flash-exp"

var catalog = []struct{ id, name string }{
	{"gemini-2.0-flash-exp", "Gemini 2.0 Flash"},
	{"gemini-1.5-pro", "Gemini 1.5 Pro"},
	{"gemini-1.5-flash", "Gemini 1.5 Flash"},
	{"gemini-2.5-pro-exp", "Gemini 2.5 Pro"},
	{"openai/gpt-4o", "GPT-4o"},
	{"openai/gpt-4-turbo", "GPT-4 Turbo"},
	{"anthropic/claude-3.5-sonnet", "Claude 3.5 Sonnet"},
	{"anthropic/claude-3-opus", "Claude 3 Opus"},
}

// Catalog returns the known models with the provider each one routes to.
// The catalogue is informational; Resolve accepts identifiers outside it.
func Catalog() []Model {
	out := make([]Model, 0, len(catalog))
	for _, m := range catalog {
		out = append(out, Model{
			ID:       m.id,
			Name:     m.name,
			Provider: Resolve(m.id).Kind.String(),
		})
	}
	return out
}

// OtherModelLabel stands in for every model outside the catalogue in metric
// labels.
const OtherModelLabel = "other"

// MetricLabel returns the model label to record for modelID: the
// provider-native name for catalogue models and OtherModelLabel for
// everything else, so callers cannot create series at will.
func MetricLabel(modelID string) string {
	for _, m := range catalog {
		if m.id == modelID {
			return Resolve(modelID).Model
		}
	}
	return OtherModelLabel
}
