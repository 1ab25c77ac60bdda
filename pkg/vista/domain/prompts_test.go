package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectPrompt(t *testing.T) {
	tests := []struct {
		request          string
		expectedCategory Category
		expectedPrompt   string
	}{
		{"read the prescription label", CategoryMedication, medicationPrompt},
		{"what dosage should I take", CategoryMedication, medicationPrompt},
		{"what ingredients are in this", CategoryFood, foodPrompt},
		{"how many calories", CategoryFood, foodPrompt},
		{"read this document", CategoryDocument, documentPrompt},
		{"is this a form", CategoryDocument, documentPrompt},
		{"", CategoryDefault, defaultPrompt},
		{"   ", CategoryDefault, defaultPrompt},
		{"hmm", CategoryDefault, defaultPrompt},
	}
	for _, test := range tests {
		category, prompt := SelectPrompt(test.request)
		assert.Equal(t, test.expectedCategory, category, test.request)
		assert.Equal(t, test.expectedPrompt, prompt, test.request)
	}
}

func TestSelectPromptEchoesGeneralQuestion(t *testing.T) {
	category, prompt := SelectPrompt("tell me about this object")

	assert.Equal(t, CategoryGeneralQuestion, category)
	assert.Contains(t, prompt, `The user asked: "tell me about this object"`)
	assert.Contains(t, prompt, "Be helpful, clear, and focused on what the user asked.")
}

func TestSelectPromptIsCaseInsensitive(t *testing.T) {
	category, _ := SelectPrompt("READ THE PRESCRIPTION")
	assert.Equal(t, CategoryMedication, category)

	category, prompt := SelectPrompt("Describe It")
	assert.Equal(t, CategoryGeneralQuestion, category)
	assert.Contains(t, prompt, `"Describe It"`)
}

func TestSelectPromptMatchesSubstrings(t *testing.T) {
	// "repeat" contains "eat"
	category, _ := SelectPrompt("repeat that")
	assert.Equal(t, CategoryFood, category)

	// "whatever" contains "what"
	category, _ = SelectPrompt("whatever")
	assert.Equal(t, CategoryGeneralQuestion, category)
}

func TestSelectPromptIsDeterministic(t *testing.T) {
	for _, request := range []string{"", "pill", "what is this", "xyz"} {
		category1, prompt1 := SelectPrompt(request)
		category2, prompt2 := SelectPrompt(request)
		assert.Equal(t, category1, category2)
		assert.Equal(t, prompt1, prompt2)
	}
}

func TestCategoryNames(t *testing.T) {
	for _, category := range []Category{CategoryMedication, CategoryFood, CategoryDocument, CategoryGeneralQuestion, CategoryDefault} {
		assert.Equal(t, category, ParseCategory(category.String()))
	}
	assert.Equal(t, "general_question", CategoryGeneralQuestion.String())
	assert.Equal(t, CategoryDefault, ParseCategory("nonsense"))
}
