package assistant

import (
	"fmt"
	"strings"

	"github.com/medfaq/assistant/docstore"
)

// systemInstruction is the safety contract of the whole system: the model
// answers only from the retrieved CONTEXT and says it does not know
// otherwise. It is never allowed to substitute its own general knowledge.
const systemInstruction = "You're a doctor assistant chat bot. Answer the QUESTION based on the CONTEXT from the FAQ database. " +
	"Use only the facts from the CONTEXT when answering the QUESTION. Do not make any answers up if you do not have enough context. " +
	"If you do not know, state 'sorry I don't have an answer to that question'."

// Prompt is the assembled instruction for the completion backend.
type Prompt struct {
	System   string
	Context  string
	Question string
}

// BuildPrompt concatenates the retrieved documents in fused-rank order,
// each tagged with its source question/answer pair. An empty document list
// produces a valid prompt with an empty CONTEXT section; the instruction
// then steers the model toward an "I don't know" answer.
func BuildPrompt(question string, docs []docstore.Document) Prompt {
	var b strings.Builder
	for i, doc := range docs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "id: %s\nquestion: %s\nanswer: %s", doc.ID, doc.Question, doc.Answer)
	}

	return Prompt{
		System:   systemInstruction,
		Context:  b.String(),
		Question: question,
	}
}

// Render flattens the prompt into the single string the completion
// backends accept.
func (p Prompt) Render() string {
	return fmt.Sprintf("%s\n\nQUESTION: %s\n\nCONTEXT:\n%s", p.System, p.Question, p.Context)
}
