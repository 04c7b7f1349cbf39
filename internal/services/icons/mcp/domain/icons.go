package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/icondex/internal/services/icons/icon"
	"github.com/louisbranch/icondex/internal/services/icons/label"
	"github.com/louisbranch/icondex/internal/services/icons/library"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/text/language"
)

const defaultSearchLimit = 20

// IconGetInput represents the MCP tool input for reading one icon.
type IconGetInput struct {
	ID int `json:"id" jsonschema:"icon identifier"`
}

// IconLabel is one resolved label of an icon.
type IconLabel struct {
	Name    string   `json:"name" jsonschema:"label name, prefixed with _ for group labels"`
	Text    string   `json:"text,omitempty" jsonschema:"display text"`
	Aliases []string `json:"aliases,omitempty" jsonschema:"every alias when the label has several"`
}

// IconResult represents the MCP tool output for an icon.
type IconResult struct {
	ID           int         `json:"id" jsonschema:"icon identifier"`
	CategoryID   *int        `json:"category_id,omitempty" jsonschema:"category identifier"`
	CategoryName string      `json:"category_name,omitempty" jsonschema:"category display name"`
	Path         string      `json:"path" jsonschema:"SVG path data"`
	Labels       []IconLabel `json:"labels" jsonschema:"resolved labels in declaration order"`
}

// LabelGetInput represents the MCP tool input for reading a label.
type LabelGetInput struct {
	Name    string `json:"name" jsonschema:"label name, prefix with _ for group labels"`
	Default bool   `json:"default,omitempty" jsonschema:"return the value held before the first overwrite"`
}

// LabelResult represents the MCP tool output for a label.
type LabelResult struct {
	Name        string   `json:"name" jsonschema:"label name"`
	Text        string   `json:"text" jsonschema:"display text"`
	Aliases     []string `json:"aliases,omitempty" jsonschema:"aliases in order"`
	Overwritten bool     `json:"overwritten" jsonschema:"whether a later load replaced the original value"`
}

// CategoryGetInput represents the MCP tool input for reading a category.
type CategoryGetInput struct {
	ID int `json:"id" jsonschema:"category identifier"`
}

// CategoryResult represents the MCP tool output for a category.
type CategoryResult struct {
	ID      int    `json:"id" jsonschema:"category identifier"`
	Name    string `json:"name" jsonschema:"category display name"`
	IconIDs []int  `json:"icon_ids" jsonschema:"icons in the category sorted by id"`
}

// IconSearchInput represents the MCP tool input for label search.
type IconSearchInput struct {
	Query string `json:"query" jsonschema:"text to match against label values, accents and case ignored"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum results, default 20"`
}

// IconSummary is one search hit.
type IconSummary struct {
	ID   int    `json:"id" jsonschema:"icon identifier"`
	Text string `json:"text,omitempty" jsonschema:"text of the first resolved label"`
}

// IconSearchResult represents the MCP tool output for label search.
type IconSearchResult struct {
	Icons []IconSummary `json:"icons" jsonschema:"matching icons sorted by id"`
	Total int           `json:"total" jsonschema:"matches before the limit"`
}

// LabelsReloadInput represents the MCP tool input for reloading labels.
type LabelsReloadInput struct {
	Locale string `json:"locale,omitempty" jsonschema:"BCP 47 tag to switch to before reloading"`
}

// LabelsReloadResult represents the MCP tool output for a reload.
type LabelsReloadResult struct {
	Locale string `json:"locale" jsonschema:"active locale"`
	Labels int    `json:"labels" jsonschema:"number of labels after the reload"`
}

// IconGetTool defines the MCP tool schema for reading an icon.
func IconGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "icon_get",
		Description: "Returns an icon with its category and resolved labels",
	}
}

// LabelGetTool defines the MCP tool schema for reading a label.
func LabelGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "label_get",
		Description: "Returns the current or original value of a label",
	}
}

// CategoryGetTool defines the MCP tool schema for reading a category.
func CategoryGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "category_get",
		Description: "Returns a category name and its icons",
	}
}

// IconSearchTool defines the MCP tool schema for label search.
func IconSearchTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "icon_search",
		Description: "Finds icons whose labels contain the query",
	}
}

// LabelsReloadTool defines the MCP tool schema for reloading labels.
func LabelsReloadTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "labels_reload",
		Description: "Reloads labels, optionally for another locale",
	}
}

// IconGetHandler reads one icon.
func IconGetHandler(lib *library.Library) mcp.ToolHandlerFor[IconGetInput, IconResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input IconGetInput) (*mcp.CallToolResult, IconResult, error) {
		ic, ok := lib.Icon(input.ID)
		if !ok {
			return nil, IconResult{}, fmt.Errorf("icon %d not found", input.ID)
		}
		return &mcp.CallToolResult{}, iconResult(lib, ic), nil
	}
}

func iconResult(lib *library.Library, ic icon.Icon) IconResult {
	result := IconResult{
		ID:     ic.ID,
		Path:   string(ic.Path),
		Labels: make([]IconLabel, 0, len(ic.Labels)),
	}
	if ic.Category != nil {
		id := ic.Category.ID
		result.CategoryID = &id
		result.CategoryName, _ = lib.CategoryName(id)
	}
	for _, ref := range ic.Labels {
		lbl, ok := lib.ResolveLabel(ref)
		if !ok {
			continue
		}
		name := lbl.Name
		if ref.Group {
			name = icon.GroupPrefix + name
		}
		result.Labels = append(result.Labels, IconLabel{
			Name:    name,
			Text:    lbl.Text(),
			Aliases: aliasTexts(lbl.Content),
		})
	}
	return result
}

// LabelGetHandler reads one label.
func LabelGetHandler(lib *library.Library) mcp.ToolHandlerFor[LabelGetInput, LabelResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input LabelGetInput) (*mcp.CallToolResult, LabelResult, error) {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return nil, LabelResult{}, fmt.Errorf("name is required")
		}
		lbl, ok := lib.Label(name)
		if !ok {
			return nil, LabelResult{}, fmt.Errorf("label %q not found", name)
		}
		content := lbl.Resolved(input.Default)
		return &mcp.CallToolResult{}, LabelResult{
			Name:        name,
			Text:        content.Text(),
			Aliases:     aliasTexts(content),
			Overwritten: lbl.Default != nil,
		}, nil
	}
}

func aliasTexts(c label.Content) []string {
	if !c.HasAliases() {
		return nil
	}
	aliases := c.Aliases()
	out := make([]string, 0, len(aliases))
	for _, v := range aliases {
		out = append(out, v.Text)
	}
	return out
}

// CategoryGetHandler reads one category.
func CategoryGetHandler(lib *library.Library) mcp.ToolHandlerFor[CategoryGetInput, CategoryResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input CategoryGetInput) (*mcp.CallToolResult, CategoryResult, error) {
		if _, ok := lib.Category(input.ID); !ok {
			return nil, CategoryResult{}, fmt.Errorf("category %d not found", input.ID)
		}
		name, _ := lib.CategoryName(input.ID)
		result := CategoryResult{ID: input.ID, Name: name, IconIDs: []int{}}
		for _, ic := range lib.Icons() {
			if ic.Category != nil && ic.Category.ID == input.ID {
				result.IconIDs = append(result.IconIDs, ic.ID)
			}
		}
		return &mcp.CallToolResult{}, result, nil
	}
}

// IconSearchHandler searches icons by label text.
func IconSearchHandler(lib *library.Library) mcp.ToolHandlerFor[IconSearchInput, IconSearchResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input IconSearchInput) (*mcp.CallToolResult, IconSearchResult, error) {
		if input.Limit < 0 {
			return nil, IconSearchResult{}, fmt.Errorf("limit must not be negative")
		}
		limit := input.Limit
		if limit == 0 {
			limit = defaultSearchLimit
		}

		hits := lib.Search(input.Query)
		result := IconSearchResult{Icons: []IconSummary{}, Total: len(hits)}
		for _, ic := range hits {
			if len(result.Icons) == limit {
				break
			}
			summary := IconSummary{ID: ic.ID}
			if labels := lib.IconLabels(ic); len(labels) > 0 {
				summary.Text = labels[0].Text()
			}
			result.Icons = append(result.Icons, summary)
		}
		return &mcp.CallToolResult{}, result, nil
	}
}

// LabelsReloadHandler reloads labels, switching locale first when one is
// given.
func LabelsReloadHandler(lib *library.Library) mcp.ToolHandlerFor[LabelsReloadInput, LabelsReloadResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LabelsReloadInput) (*mcp.CallToolResult, LabelsReloadResult, error) {
		if locale := strings.TrimSpace(input.Locale); locale != "" {
			tag, err := language.Parse(locale)
			if err != nil {
				return nil, LabelsReloadResult{}, fmt.Errorf("parse locale %q: %w", locale, err)
			}
			if err := lib.SetLocale(ctx, tag); err != nil {
				return nil, LabelsReloadResult{}, fmt.Errorf("set locale: %w", err)
			}
		} else if err := lib.ReloadLabels(ctx); err != nil {
			return nil, LabelsReloadResult{}, fmt.Errorf("reload labels: %w", err)
		}
		return &mcp.CallToolResult{}, LabelsReloadResult{
			Locale: lib.Locale().String(),
			Labels: len(lib.Labels()),
		}, nil
	}
}
