package services

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/pandeptwidyaop/tool-catalog/internal/models"
)

type commandRef struct {
	tool    int
	command int
}

// commandIndex exposes every command of a payload to fuzzy matching.
type commandIndex struct {
	refs      []commandRef
	haystacks []string
}

func (ci *commandIndex) String(i int) string { return ci.haystacks[i] }

func (ci *commandIndex) Len() int { return len(ci.haystacks) }

// FilterTools narrows a tools payload for the library view. query is fuzzy
// matched against each command's name, description, template, category, and
// tags; category must match exactly (case-insensitively) when set. Commands
// are ranked by match score and tools by their best command. With both
// filters empty the payload is returned unchanged.
func FilterTools(tools []models.ToolPayload, query, category string) []models.ToolPayload {
	query = strings.TrimSpace(query)
	category = strings.TrimSpace(category)
	if query == "" && category == "" {
		return tools
	}

	idx := &commandIndex{}
	for ti, tool := range tools {
		for ci, cmd := range tool.Commands {
			if category != "" && !strings.EqualFold(cmd.Category, category) {
				continue
			}
			idx.refs = append(idx.refs, commandRef{tool: ti, command: ci})
			idx.haystacks = append(idx.haystacks, strings.Join([]string{
				cmd.Name,
				cmd.Description,
				cmd.Template,
				cmd.Category,
				strings.Join(cmd.Tags, " "),
			}, " "))
		}
	}

	var order []int
	if query == "" {
		order = make([]int, idx.Len())
		for i := range order {
			order[i] = i
		}
	} else {
		for _, m := range fuzzy.FindFrom(query, idx) {
			order = append(order, m.Index)
		}
	}

	filtered := make([]models.ToolPayload, 0)
	position := make(map[int]int)
	for _, i := range order {
		ref := idx.refs[i]
		pos, ok := position[ref.tool]
		if !ok {
			src := tools[ref.tool]
			pos = len(filtered)
			position[ref.tool] = pos
			filtered = append(filtered, models.ToolPayload{
				ID:          src.ID,
				Name:        src.Name,
				Description: src.Description,
				Commands:    []models.CommandPayload{},
			})
		}
		filtered[pos].Commands = append(filtered[pos].Commands, tools[ref.tool].Commands[ref.command])
	}
	return filtered
}

// Categories returns the distinct non-empty categories in the payload, in
// first-seen order.
func Categories(tools []models.ToolPayload) []string {
	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, tool := range tools {
		for _, cmd := range tool.Commands {
			if cmd.Category == "" || seen[cmd.Category] {
				continue
			}
			seen[cmd.Category] = true
			categories = append(categories, cmd.Category)
		}
	}
	return categories
}
