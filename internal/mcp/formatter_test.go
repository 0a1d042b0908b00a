package mcp

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pomgrid/pomgrid/internal/store/postgres"
	"github.com/pomgrid/pomgrid/pkg/models"
)

func testModule(groupID, artifactID, version, packaging string) postgres.Module {
	return postgres.Module{
		ID:          uuid.New(),
		ProjectID:   uuid.New(),
		ImportRunID: uuid.New(),
		GroupID:     groupID,
		ArtifactID:  artifactID,
		Version:     version,
		Packaging:   packaging,
		PomPath:     artifactID + "/pom.xml",
		CreatedAt:   time.Now(),
	}
}

// --- ParseVerbosity ---

func TestParseVerbosity_Defaults(t *testing.T) {
	tests := []struct {
		input    string
		expected Verbosity
	}{
		{"summary", VerbositySummary},
		{"SUMMARY", VerbositySummary},
		{"full", VerbosityFull},
		{"Full", VerbosityFull},
		{"standard", VerbosityStandard},
		{"", VerbosityStandard},
		{"unknown", VerbosityStandard},
	}

	for _, tt := range tests {
		got := ParseVerbosity(tt.input)
		if got != tt.expected {
			t.Errorf("ParseVerbosity(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

// --- ResponseBuilder ---

func TestResponseBuilder_DefaultMaxTokens(t *testing.T) {
	rb := NewResponseBuilder(0)
	if rb.maxTokens != defaultMaxTokens {
		t.Errorf("default max tokens should be %d, got %d", defaultMaxTokens, rb.maxTokens)
	}
}

func TestResponseBuilder_AddHeader(t *testing.T) {
	rb := NewResponseBuilder(1000)
	rb.AddHeader("# Test Header")
	result := rb.Finalize(0, 0)
	if !strings.Contains(result, "# Test Header") {
		t.Error("header should be present in output")
	}
	if rb.TokenEstimate() == 0 {
		t.Error("token estimate should be positive after adding header")
	}
}

func TestResponseBuilder_AddLine_BudgetExceeded(t *testing.T) {
	rb := NewResponseBuilder(5) // Very small budget
	rb.AddLine("short")
	ok := rb.AddLine(strings.Repeat("x", 100))
	if ok {
		t.Error("adding line exceeding budget should fail")
	}
	if !rb.IsTruncated() {
		t.Error("should be marked as truncated")
	}
}

func TestResponseBuilder_AddModuleCard_Summary(t *testing.T) {
	rb := NewResponseBuilder(2000)
	mod := testModule("org.example", "core", "1.0.0", "jar")
	ok := rb.AddModuleCard(mod, VerbositySummary)
	if !ok {
		t.Error("should succeed within budget")
	}
	out := rb.Finalize(1, 1)
	if !strings.Contains(out, "org.example:core:1.0.0") {
		t.Error("summary card should contain the GAV")
	}
	if strings.Contains(out, "POM:") {
		t.Error("summary card should not contain the POM path")
	}
	if rb.ItemCount() != 1 {
		t.Errorf("item count should be 1, got %d", rb.ItemCount())
	}
}

func TestResponseBuilder_AddModuleCard_Full(t *testing.T) {
	rb := NewResponseBuilder(2000)
	mod := testModule("org.example", "web", "1.0.0", "war")
	mod.ParentGA = "org.example:parent"
	mod.Folders, _ = json.Marshal([]models.Folder{
		{Path: "src/main/java", Kind: models.FolderKindSource},
	})
	if !rb.AddModuleCard(mod, VerbosityFull) {
		t.Fatal("should succeed within budget")
	}
	out := rb.Finalize(1, 1)
	if !strings.Contains(out, "web/pom.xml") {
		t.Error("full card should contain the POM path")
	}
	if !strings.Contains(out, "org.example:parent") {
		t.Error("full card should contain the parent GA")
	}
	if !strings.Contains(out, "src/main/java") {
		t.Error("full card should contain folder paths")
	}
}

func TestResponseBuilder_Finalize_Truncated(t *testing.T) {
	rb := NewResponseBuilder(1000)
	rb.AddLine("one line")
	out := rb.Finalize(10, 1)
	if !strings.Contains(out, "Showing 1 of 10") {
		t.Error("truncation notice should mention result counts")
	}
}

func TestResponseBuilder_Finalize_NotTruncated(t *testing.T) {
	rb := NewResponseBuilder(1000)
	rb.AddLine("one line")
	out := rb.Finalize(1, 1)
	if strings.Contains(out, "Showing") {
		t.Error("complete result should not carry a truncation notice")
	}
}
