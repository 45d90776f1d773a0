package models

// CatalogExport is the JSON document produced by export and accepted by import.
type CatalogExport struct {
	Tools []ToolExport `json:"tools"`
}

// ToolExport represents a tool with its commands for export (without IDs).
type ToolExport struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Commands    []CommandExport `json:"commands"`
}

// CommandExport represents a command template for export (without IDs).
type CommandExport struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Template    string   `json:"template"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// ImportResult reports what an import changed.
type ImportResult struct {
	ToolsCreated    int `json:"tools_created"`
	CommandsCreated int `json:"commands_created"`
	CommandsUpdated int `json:"commands_updated"`
	Skipped         int `json:"skipped"`
}

// Overview summarizes the catalog for the dashboard.
type Overview struct {
	LatestCommand *CommandWithTool `json:"latest_command"`
	RecentTools   []Tool           `json:"recent_tools"`
	ToolCount     int              `json:"tool_count"`
	CommandCount  int              `json:"command_count"`
	CategoryCount int              `json:"category_count"`
}
