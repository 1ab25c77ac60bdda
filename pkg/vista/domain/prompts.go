package domain

import (
	"fmt"
	"strings"

	"kgeyst.com/vista/pkg/common"
)

// Category what kind of subject the user asked about. The order of the constants is the order in which categories
// are checked: a request mentioning both a pill and food is a medication request.
type Category int

const (
	CategoryMedication = Category(iota)
	CategoryFood
	CategoryDocument
	CategoryGeneralQuestion
	CategoryDefault
)

var categoryNames = map[Category]string{
	CategoryMedication:      "medication",
	CategoryFood:            "food",
	CategoryDocument:        "document",
	CategoryGeneralQuestion: "general_question",
	CategoryDefault:         "default",
}

func (c Category) String() string {
	name, ok := categoryNames[c]
	if !ok {
		return "unknown"
	}
	return name
}

// ParseCategory is the reverse of Category.String. Unknown names map to CategoryDefault.
func ParseCategory(name string) Category {
	for category, categoryName := range categoryNames {
		if categoryName == name {
			return category
		}
	}
	return CategoryDefault
}

type promptRule struct {
	category Category
	keywords []string
	prompt   string
}

// Checked top to bottom, first match wins.
var promptRules = []promptRule{
	{
		category: CategoryMedication,
		keywords: []string{"prescription", "medication", "medicine", "pill", "drug", "dosage", "dose"},
		prompt:   medicationPrompt,
	},
	{
		category: CategoryFood,
		keywords: []string{"food", "ingredients", "nutrition", "allergen", "eat", "calories"},
		prompt:   foodPrompt,
	},
	{
		category: CategoryDocument,
		keywords: []string{"read", "document", "letter", "text", "form", "paper"},
		prompt:   documentPrompt,
	},
	{
		category: CategoryGeneralQuestion,
		keywords: []string{"what", "identify", "describe", "tell me"},
		prompt:   generalQuestionPromptFormat,
	},
}

// SelectPrompt picks the prompt for the vision model based on what the user said after the trigger keyword.
// An empty request, or one matching no category, gets the default prompt which lets the model decide what it's
// looking at. Matching is case-insensitive substring containment.
func SelectPrompt(userRequest string) (Category, string) {
	if strings.TrimSpace(userRequest) == "" {
		return CategoryDefault, defaultPrompt
	}
	loweredRequest := strings.ToLower(userRequest)
	for _, rule := range promptRules {
		if !common.ContainsAnySubstring(loweredRequest, rule.keywords) {
			continue
		}
		if rule.category == CategoryGeneralQuestion {
			return rule.category, fmt.Sprintf(rule.prompt, userRequest)
		}
		return rule.category, rule.prompt
	}
	return CategoryDefault, defaultPrompt
}

const medicationPrompt = `Read and analyze this medication label or prescription. Provide:
- Medication name (brand and generic)
- Dosage and strength
- Instructions for use (how often, when to take, with/without food)
- Important warnings and precautions
- Expiration date
- Active ingredients
- Any other critical safety information

Be clear, accurate, and thorough. This is safety-critical information.`

const foodPrompt = `Analyze this food product label. Provide:
- Product name and type
- Key ingredients (especially first 5)
- Allergen warnings (nuts, dairy, gluten, etc.)
- Nutritional highlights (calories, protein, sugar, etc.)
- Expiration or best-by date
- Serving size information

Focus on health and safety relevant information.`

const documentPrompt = `Read and extract the text from this document. Provide:
- Main heading or title
- Key information and important text
- Any dates, numbers, or critical details
- Structure (sections, bullet points, etc.)

Read it clearly as if reading aloud to someone.`

const generalQuestionPromptFormat = `The user asked: "%s"

Analyze this image and answer their question. Provide relevant information about:
- What you see in the image
- Key details that answer their question
- Any important context or information

Be helpful, clear, and focused on what the user asked.`

const defaultPrompt = `Analyze this image and provide relevant information based on what you see.

MEDICATION LABELS - If this is a medication bottle, prescription label, pill bottle, or pharmaceutical product:
- Medication name (brand and generic if visible)
- Dosage and strength (e.g., "500 mg", "10 ml")
- Instructions for use (e.g., "Take twice daily with food")
- Important warnings or precautions
- Expiration date if visible
- Active ingredients
- Prescription number if visible
- Any critical safety information
Format this clearly and read it in a way that's easy to understand when spoken aloud.

FOOD LABELS - If this is food packaging or nutrition label:
- Product name and type
- Key ingredients
- Nutritional highlights
- Allergen warnings
- Expiration or best-by date
- Serving information

DOCUMENTS/TEXT - If this contains text, forms, or documents:
- Main heading or title
- Key information or important text
- Any dates, numbers, or critical details
- Purpose of the document

GENERAL OBJECTS - For other items:
- What the object is
- Its purpose or function
- Notable features or condition
- Any text, labels, or markings visible
- Relevant context or usage information

IMPORTANT: Be concise, clear, and prioritize safety-critical information first (especially for medications). Speak naturally as if helping someone who cannot see the image.`
