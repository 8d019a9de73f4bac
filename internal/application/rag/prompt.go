package rag

import (
	"fmt"
	"strings"
)

// BuildPrompt assembles the grounded prompt: retrieved context in
// ranking order, then the question, then the instruction to answer
// from the context only. The instruction keeps the model from
// inventing answers when the context does not contain one.
func BuildPrompt(question string, contexts []string) string {
	contextStr := strings.Join(contexts, "\n")

	return fmt.Sprintf(`Context: %s

Question: %s

Please provide a helpful answer based on the context provided.
If you cannot find the answer in the context, please say so.`, contextStr, question)
}
