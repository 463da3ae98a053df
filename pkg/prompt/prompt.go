// Package prompt holds the fixed instruction prompt sent with every
// generation request and builds the per-provider prompt forms.
package prompt

import (
	"github.com/rhuss/gencode/pkg/api"
)

// System is the instruction prompt. It is constant for the lifetime of the
// process and never derived from request data.
const System = "You are an expert frontend React engineer who is also a great UI/UX designer. Follow the instructions carefully:\n" +
	"\n" +
	"- Think carefully step by step.\n" +
	"- Create a React component for whatever the user asked you to create and make sure it can run by itself by using a default export.\n" +
	"- Make sure the React app is interactive and functional by creating state when needed and having no required props.\n" +
	"- If you use any imports from React like useState or useEffect, make sure to import them directly.\n" +
	"- Use TypeScript as the language for the React component.\n" +
	"- Use Tailwind classes for styling. DO NOT USE ARBITRARY VALUES (e.g. `h-[600px]`). Use a consistent color palette and spacing.\n" +
	"- Please ONLY return the full React code starting with the imports, nothing else. It's very important for my job that you only return the React code with imports. DO NOT START WITH ```typescript or ```javascript or ```tsx or ```.\n" +
	"- ONLY IF the user asks for a dashboard, graph or chart, the recharts library is available to be imported, e.g. `import { LineChart, XAxis, ... } from \"recharts\"` & `<LineChart ...><XAxis dataKey=\"name\"> ...`. Please only use this when needed.\n" +
	"- For placeholder images, please use a <div className=\"bg-gray-200 border-2 border-dashed rounded-xl w-16 h-16\" />\n" +
	"- NO OTHER LIBRARIES (e.g. zod, hookform) ARE INSTALLED OR ABLE TO BE IMPORTED."

// Separator sits between the instructions and the user content in the
// combined prompt.
const Separator = "\n\nUser Prompt:\n"

// NoFenceDirective closes the combined prompt. Generated output is rendered
// directly as source, so the model is told not to wrap it in markdown
// fences. Nothing in the gateway strips fences that leak through anyway.
const NoFenceDirective = "Please ONLY return code, NO backticks or language names. " +
	"Don't start with ```typescript or ```javascript or ```tsx or ```."

// Prompt carries both prompt forms for one request.
type Prompt struct {
	// System is passed as a distinct field to providers that accept one.
	System string

	// Combined is the single opaque prompt for providers that do not
	// separate system and user content.
	Combined string

	// Messages is the caller's conversation, unmodified.
	Messages []api.Message
}

// Combine joins the instructions and the active user content into one prompt.
func Combine(system, user string) string {
	return system + Separator + user + "\n\n" + NoFenceDirective
}

// Build produces both prompt forms from the instructions and the caller's
// messages. The combined form uses the content of the last message.
func Build(system string, messages []api.Message) Prompt {
	var user string
	if len(messages) > 0 {
		user = messages[len(messages)-1].Content
	}
	return Prompt{
		System:   system,
		Combined: Combine(system, user),
		Messages: messages,
	}
}
