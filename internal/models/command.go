package models

import "time"

// CommandTemplate is a parameterized command string owned by a tool.
type CommandTemplate struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	ToolID      string    `json:"tool_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Template    string    `json:"template"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
}

// Payload converts the command into its client-facing form.
func (c *CommandTemplate) Payload() CommandPayload {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return CommandPayload{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Template:    c.Template,
		Category:    c.Category,
		Tags:        tags,
	}
}

// CommandInput holds the mutable fields of a command template.
type CommandInput struct {
	Name        string
	Description string
	Template    string
	Category    string
	Tags        []string
}

// CommandWithTool extends CommandTemplate with the owning tool's name.
type CommandWithTool struct {
	CommandTemplate
	ToolName string `json:"tool_name"`
}
