package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medfaq/assistant/docstore"
)

func TestBuildPromptPreservesDocumentOrder(t *testing.T) {
	docs := []docstore.Document{
		{ID: "doc-2", Question: "What causes a dry cough?", Answer: "Often a viral infection."},
		{ID: "doc-1", Question: "Is fever dangerous?", Answer: "Usually not on its own."},
	}

	prompt := BuildPrompt("what about my cough", docs)

	first := strings.Index(prompt.Context, "id: doc-2")
	second := strings.Index(prompt.Context, "id: doc-1")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)

	assert.Contains(t, prompt.Context, "question: What causes a dry cough?")
	assert.Contains(t, prompt.Context, "answer: Often a viral infection.")
	assert.Equal(t, "what about my cough", prompt.Question)
	assert.Equal(t, systemInstruction, prompt.System)
}

func TestBuildPromptEmptyContext(t *testing.T) {
	prompt := BuildPrompt("what is the capital of France", nil)

	assert.Empty(t, prompt.Context)

	rendered := prompt.Render()
	assert.Contains(t, rendered, "QUESTION: what is the capital of France")
	assert.True(t, strings.HasSuffix(rendered, "CONTEXT:\n"))
}

func TestPromptRenderLayout(t *testing.T) {
	prompt := Prompt{System: "SYS", Context: "CTX", Question: "Q"}

	assert.Equal(t, "SYS\n\nQUESTION: Q\n\nCONTEXT:\nCTX", prompt.Render())
}
