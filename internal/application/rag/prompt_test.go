package rag

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("What is ROS 2?", []string{"first passage", "second passage"})

	if !strings.Contains(prompt, "Context: first passage\nsecond passage") {
		t.Errorf("context not newline-joined in ranking order:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Question: What is ROS 2?") {
		t.Errorf("question missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "If you cannot find the answer in the context, please say so.") {
		t.Errorf("grounding instruction missing:\n%s", prompt)
	}
}

func TestBuildPromptEmptyContext(t *testing.T) {
	prompt := BuildPrompt("What is ROS 2?", nil)
	if !strings.Contains(prompt, "Question: What is ROS 2?") {
		t.Errorf("question missing:\n%s", prompt)
	}
}
