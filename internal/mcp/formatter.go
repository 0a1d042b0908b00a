package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pomgrid/pomgrid/internal/store/postgres"
	"github.com/pomgrid/pomgrid/pkg/models"
)

const defaultMaxTokens = 4000

// Verbosity controls how much detail is included in module cards.
type Verbosity string

const (
	VerbositySummary  Verbosity = "summary"
	VerbosityStandard Verbosity = "standard"
	VerbosityFull     Verbosity = "full"
)

// ParseVerbosity returns a Verbosity from a string, defaulting to standard.
func ParseVerbosity(s string) Verbosity {
	switch strings.ToLower(s) {
	case "summary":
		return VerbositySummary
	case "full":
		return VerbosityFull
	default:
		return VerbosityStandard
	}
}

// ResponseBuilder constructs token-budgeted Markdown responses for MCP tools.
type ResponseBuilder struct {
	buf           strings.Builder
	tokenEstimate int
	maxTokens     int
	truncated     bool
	itemCount     int
}

// NewResponseBuilder creates a builder with the given token budget.
// If maxTokens <= 0, defaultMaxTokens is used.
func NewResponseBuilder(maxTokens int) *ResponseBuilder {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &ResponseBuilder{maxTokens: maxTokens}
}

// AddHeader writes a header line to the response.
func (rb *ResponseBuilder) AddHeader(text string) {
	line := text + "\n\n"
	rb.buf.WriteString(line)
	rb.tokenEstimate += len(line) / 4
}

// AddLine writes a single line to the response, returning false if budget exceeded.
func (rb *ResponseBuilder) AddLine(text string) bool {
	line := text + "\n"
	cost := len(line) / 4
	if rb.tokenEstimate+cost > rb.maxTokens {
		rb.truncated = true
		return false
	}
	rb.buf.WriteString(line)
	rb.tokenEstimate += cost
	return true
}

// AddModuleCard renders a module at the requested verbosity.
// Returns false if the card would exceed the token budget.
func (rb *ResponseBuilder) AddModuleCard(mod postgres.Module, verbosity Verbosity) bool {
	card := formatModuleCard(mod, verbosity)
	cost := len(card) / 4
	if rb.tokenEstimate+cost > rb.maxTokens {
		rb.truncated = true
		return false
	}
	rb.buf.WriteString(card)
	rb.tokenEstimate += cost
	rb.itemCount++
	return true
}

// AddSection writes a section with a heading.
func (rb *ResponseBuilder) AddSection(heading string, content string) bool {
	section := fmt.Sprintf("### %s\n%s\n\n", heading, content)
	cost := len(section) / 4
	if rb.tokenEstimate+cost > rb.maxTokens {
		rb.truncated = true
		return false
	}
	rb.buf.WriteString(section)
	rb.tokenEstimate += cost
	return true
}

// AddRawText writes raw text, respecting the budget.
func (rb *ResponseBuilder) AddRawText(text string) bool {
	cost := len(text) / 4
	if rb.tokenEstimate+cost > rb.maxTokens {
		rb.truncated = true
		return false
	}
	rb.buf.WriteString(text)
	rb.tokenEstimate += cost
	return true
}

// Finalize appends truncation notice and returns the final response text.
func (rb *ResponseBuilder) Finalize(totalCount, returnedCount int) string {
	if rb.truncated || returnedCount < totalCount {
		rb.buf.WriteString(fmt.Sprintf(
			"\n---\n*Showing %d of %d results (truncated to ~%d tokens). Use `max_response_tokens` to raise the budget.*\n",
			returnedCount, totalCount, rb.maxTokens))
	}
	return rb.buf.String()
}

// TokenEstimate returns the current estimated token count.
func (rb *ResponseBuilder) TokenEstimate() int {
	return rb.tokenEstimate
}

// IsTruncated returns whether the response was truncated.
func (rb *ResponseBuilder) IsTruncated() bool {
	return rb.truncated
}

// ItemCount returns the number of items added.
func (rb *ResponseBuilder) ItemCount() int {
	return rb.itemCount
}

// formatModuleCard renders a committed module as a Markdown card.
func formatModuleCard(mod postgres.Module, verbosity Verbosity) string {
	var b strings.Builder

	gav := fmt.Sprintf("%s:%s:%s", mod.GroupID, mod.ArtifactID, mod.Version)

	switch verbosity {
	case VerbositySummary:
		b.WriteString(fmt.Sprintf("**%s** (%s)\n", mod.ArtifactID, mod.Packaging))
		b.WriteString(fmt.Sprintf("  GAV: `%s`\n\n", gav))

	case VerbosityFull:
		b.WriteString(fmt.Sprintf("**%s** (%s)\n", mod.ArtifactID, mod.Packaging))
		b.WriteString(fmt.Sprintf("  GAV: `%s`\n", gav))
		b.WriteString(fmt.Sprintf("  POM: `%s`\n", mod.PomPath))
		if mod.ParentGA != "" {
			b.WriteString(fmt.Sprintf("  Parent: `%s`\n", mod.ParentGA))
		}
		for _, f := range decodeFolders(mod.Folders) {
			b.WriteString(fmt.Sprintf("  Folder: %s (%s)\n", f.Path, f.Kind))
		}
		b.WriteString(fmt.Sprintf("  ID: `%s`\n\n", mod.ID))

	default: // standard
		b.WriteString(fmt.Sprintf("**%s** (%s)\n", mod.ArtifactID, mod.Packaging))
		b.WriteString(fmt.Sprintf("  GAV: `%s`\n", gav))
		if mod.ParentGA != "" {
			b.WriteString(fmt.Sprintf("  Parent: `%s`\n", mod.ParentGA))
		}
		b.WriteString(fmt.Sprintf("  ID: `%s`\n\n", mod.ID))
	}

	return b.String()
}

func decodeFolders(raw []byte) []models.Folder {
	if len(raw) == 0 {
		return nil
	}
	var folders []models.Folder
	if err := json.Unmarshal(raw, &folders); err != nil {
		return nil
	}
	return folders
}
