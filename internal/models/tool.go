// Package models defines data models for tools, command templates, and catalog documents.
package models

import "time"

// Tool represents a command-line utility that groups related command templates.
type Tool struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// ToolPayload is a tool with its commands, as consumed by the composer,
// library, and manage pages.
type ToolPayload struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Commands    []CommandPayload `json:"commands"`
}

// CommandPayload is the client-facing view of a command template.
type CommandPayload struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Template    string   `json:"template"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}
