// Package intent maps raw chat text to a product identifier or a coarse
// command. Matching is pattern-based; there is no tokenization or
// statistical model behind it.
package intent

import (
	"regexp"
	"strings"

	"reviewbot/internal/models"
)

var (
	// A 10-character code inside an Amazon product URL path. The whole
	// pattern is case-insensitive but the captured group preserves the
	// original casing of the token.
	urlPattern = regexp.MustCompile(`(?i)amazon\.com/\S*/([A-Z0-9]{10})`)

	// A bare ASIN anywhere in the text. Upper-case only, matching the
	// canonical ASIN form.
	asinPattern = regexp.MustCompile(`[A-Z0-9]{10}`)
)

// ExtractProductID returns the product identifier found in text, or ""
// when there is none. A URL-embedded identifier takes precedence over a
// bare token; for bare tokens the first match wins.
func ExtractProductID(text string) string {
	if m := urlPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := asinPattern.FindString(text); m != "" {
		return m
	}
	return ""
}

// bang-command prefixes recognized ahead of natural-language phrases
const (
	cmdAnalyze = "!analyze"
	cmdStats   = "!stats"
	cmdCompare = "!compare"
	cmdHelp    = "!help"
)

// Interpret maps one message body to an Intent.
//
// Priority order: explicit !commands, then an extractable identifier
// (which wins even when advice/comparison keywords are also present),
// then buy-advice phrases, comparison phrases, help phrases, and
// finally unknown. Phrase matching is substring-based on the
// lower-cased input.
func Interpret(text string) models.Intent {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	if strings.HasPrefix(lower, "!") {
		return interpretCommand(trimmed, lower)
	}

	if id := ExtractProductID(trimmed); id != "" {
		return models.Intent{Command: models.CommandAnalyze, ProductID: id}
	}

	switch {
	case strings.Contains(lower, "should i buy"),
		strings.Contains(lower, "what do you think about"),
		strings.Contains(lower, "is this good"):
		return models.Intent{Command: models.CommandAskForProduct}

	case strings.Contains(lower, "compare"),
		strings.Contains(lower, "which is better"):
		return models.Intent{Command: models.CommandAskForComparison}

	case strings.Contains(lower, "help"),
		strings.Contains(lower, "how"):
		return models.Intent{Command: models.CommandHelp}
	}

	return models.Intent{Command: models.CommandUnknown}
}

func interpretCommand(trimmed, lower string) models.Intent {
	fields := strings.Fields(trimmed)

	switch {
	case strings.HasPrefix(lower, cmdAnalyze):
		if len(fields) > 1 {
			if id := ExtractProductID(fields[1]); id != "" {
				return models.Intent{Command: models.CommandAnalyze, ProductID: id}
			}
			// An argument was given but no identifier is in it.
			return models.Intent{Command: models.CommandInvalidProduct}
		}
		// Bare !analyze behaves like asking for a product.
		return models.Intent{Command: models.CommandAskForProduct}

	case strings.HasPrefix(lower, cmdStats):
		if len(fields) > 1 {
			if id := ExtractProductID(fields[1]); id != "" {
				return models.Intent{Command: models.CommandStats, ProductID: id}
			}
			return models.Intent{Command: models.CommandInvalidProduct}
		}
		return models.Intent{Command: models.CommandAskForProduct}

	case strings.HasPrefix(lower, cmdCompare):
		it := models.Intent{Command: models.CommandAskForComparison}
		if len(fields) > 2 {
			first := ExtractProductID(fields[1])
			second := ExtractProductID(fields[2])
			if first != "" && second != "" {
				it.ProductID = first
				it.SecondProductID = second
			}
		}
		return it

	case strings.HasPrefix(lower, cmdHelp):
		it := models.Intent{Command: models.CommandHelp}
		if len(fields) > 1 {
			it.HelpTopic = strings.ToLower(fields[1])
		}
		return it
	}

	return models.Intent{Command: models.CommandUnknown}
}

// IsGreeting reports whether the message is a plain greeting.
func IsGreeting(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "hi", "hello":
		return true
	}
	return false
}
