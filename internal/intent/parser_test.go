// internal/intent/parser_test.go
package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reviewbot/internal/models"
)

// ==========================
// Product ID Extraction Tests
// ==========================

func TestExtractProductID(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "bare ASIN",
			text:     "B00ZV9PXP2",
			expected: "B00ZV9PXP2",
		},
		{
			name:     "ASIN embedded in sentence",
			text:     "what about B00ZV9PXP2 please",
			expected: "B00ZV9PXP2",
		},
		{
			name:     "product URL",
			text:     "https://amazon.com/dp/B00ZV9PXP2",
			expected: "B00ZV9PXP2",
		},
		{
			name:     "product URL with long path",
			text:     "https://www.amazon.com/Some-Product-Name/dp/B01ABCDE23?ref=sr_1_1",
			expected: "B01ABCDE23",
		},
		{
			name:     "mixed case host still matches URL",
			text:     "https://AMAZON.com/dp/B00ZV9PXP2",
			expected: "B00ZV9PXP2",
		},
		{
			name:     "lower-case token is not an ASIN",
			text:     "b00zv9pxp2",
			expected: "",
		},
		{
			name:     "too short",
			text:     "B00ZV9PX",
			expected: "",
		},
		{
			name:     "no identifier at all",
			text:     "should i buy this?",
			expected: "",
		},
		{
			name:     "empty input",
			text:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractProductID(tt.text))
		})
	}
}

// ==========================
// Intent Interpretation Tests
// ==========================

func TestInterpret_NaturalLanguage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected models.Intent
	}{
		{
			name:     "bare product identifier means analyze",
			text:     "B00ZV9PXP2",
			expected: models.Intent{Command: models.CommandAnalyze, ProductID: "B00ZV9PXP2"},
		},
		{
			name:     "identifier wins over advice phrasing",
			text:     "should i buy B00ZV9PXP2",
			expected: models.Intent{Command: models.CommandAnalyze, ProductID: "B00ZV9PXP2"},
		},
		{
			name:     "buy-advice phrase without identifier",
			text:     "Should I buy this blender?",
			expected: models.Intent{Command: models.CommandAskForProduct},
		},
		{
			name:     "opinion phrase without identifier",
			text:     "what do you think about this one",
			expected: models.Intent{Command: models.CommandAskForProduct},
		},
		{
			name:     "comparison phrase",
			text:     "compare these",
			expected: models.Intent{Command: models.CommandAskForComparison},
		},
		{
			name:     "which is better",
			text:     "Which is better for gaming?",
			expected: models.Intent{Command: models.CommandAskForComparison},
		},
		{
			name:     "help phrase",
			text:     "how does this work",
			expected: models.Intent{Command: models.CommandHelp},
		},
		{
			name:     "gibberish is unknown",
			text:     "asdf qwerty",
			expected: models.Intent{Command: models.CommandUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Interpret(tt.text))
		})
	}
}

func TestInterpret_Commands(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected models.Intent
	}{
		{
			name:     "analyze with identifier",
			text:     "!analyze B00ZV9PXP2",
			expected: models.Intent{Command: models.CommandAnalyze, ProductID: "B00ZV9PXP2"},
		},
		{
			name:     "bare analyze asks for a product",
			text:     "!analyze",
			expected: models.Intent{Command: models.CommandAskForProduct},
		},
		{
			name:     "analyze with malformed identifier is rejected",
			text:     "!analyze not-an-id",
			expected: models.Intent{Command: models.CommandInvalidProduct},
		},
		{
			name:     "stats with identifier",
			text:     "!stats B00ZV9PXP2",
			expected: models.Intent{Command: models.CommandStats, ProductID: "B00ZV9PXP2"},
		},
		{
			name:     "bare stats asks for a product",
			text:     "!stats",
			expected: models.Intent{Command: models.CommandAskForProduct},
		},
		{
			name:     "stats with malformed identifier is rejected",
			text:     "!stats tooShort1",
			expected: models.Intent{Command: models.CommandInvalidProduct},
		},
		{
			name: "compare with two identifiers",
			text: "!compare B00ZV9PXP2 B00ZV9PXP3",
			expected: models.Intent{
				Command:         models.CommandAskForComparison,
				ProductID:       "B00ZV9PXP2",
				SecondProductID: "B00ZV9PXP3",
			},
		},
		{
			name:     "bare compare starts the guided flow",
			text:     "!compare",
			expected: models.Intent{Command: models.CommandAskForComparison},
		},
		{
			name:     "compare with one identifier starts the guided flow",
			text:     "!compare B00ZV9PXP2",
			expected: models.Intent{Command: models.CommandAskForComparison},
		},
		{
			name:     "bare help",
			text:     "!help",
			expected: models.Intent{Command: models.CommandHelp},
		},
		{
			name:     "help with topic",
			text:     "!help Analyze",
			expected: models.Intent{Command: models.CommandHelp, HelpTopic: "analyze"},
		},
		{
			name:     "unrecognized command is unknown",
			text:     "!frobnicate",
			expected: models.Intent{Command: models.CommandUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Interpret(tt.text))
		})
	}
}

// ==========================
// Greeting Tests
// ==========================

func TestIsGreeting(t *testing.T) {
	assert.True(t, IsGreeting("hi"))
	assert.True(t, IsGreeting("Hello"))
	assert.True(t, IsGreeting("  HI  "))
	assert.False(t, IsGreeting("hi there"))
	assert.False(t, IsGreeting("hola"))
	assert.False(t, IsGreeting(""))
}
