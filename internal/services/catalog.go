// Package services provides business logic for the tool catalog.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/pandeptwidyaop/tool-catalog/internal/database"
	"github.com/pandeptwidyaop/tool-catalog/internal/models"
	"github.com/pandeptwidyaop/tool-catalog/internal/validation"
)

var (
	// ErrToolNotFound indicates the requested tool was not found.
	ErrToolNotFound = errors.New("tool not found")
	// ErrCommandNotFound indicates the requested command was not found.
	ErrCommandNotFound = errors.New("command not found")
	// ErrCommandExists indicates the tool already has a command with that name.
	ErrCommandExists = errors.New("a command with that name already exists for this tool")
)

// EnsureOutcome describes what EnsureTool did.
type EnsureOutcome string

const (
	// EnsureCreated means the tool did not exist and was inserted.
	EnsureCreated EnsureOutcome = "created"
	// EnsureUpdated means the tool existed and its description changed.
	EnsureUpdated EnsureOutcome = "updated"
	// EnsureUnchanged means the tool existed and nothing was written.
	EnsureUnchanged EnsureOutcome = "unchanged"
)

const toolColumns = "id, name, description, created_at, updated_at"

const commandColumns = "id, tool_id, name, description, template, category, tags, created_at, updated_at"

// CatalogService manages tools and their command templates.
type CatalogService struct {
	db *database.DB
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(db *database.DB) *CatalogService {
	return &CatalogService{db: db}
}

// EnsureTool returns the tool named name, creating it if needed. An existing
// tool's description is replaced when description is non-empty and differs.
func (s *CatalogService) EnsureTool(ctx context.Context, name, description string) (*models.Tool, EnsureOutcome, error) {
	if err := validation.ValidateToolName(name); err != nil {
		return nil, "", err
	}

	var tool *models.Tool
	var outcome EnsureOutcome
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		tool, outcome, err = ensureTool(ctx, tx, name, description, true)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return tool, outcome, nil
}

// UpsertCommand creates the (tool, name) command or overwrites all of its
// mutable fields. The bool result is true when the command was created.
func (s *CatalogService) UpsertCommand(ctx context.Context, toolID string, in models.CommandInput) (*models.CommandTemplate, bool, error) {
	if err := validation.ValidateCommand(in.Name, in.Template, in.Category); err != nil {
		return nil, false, err
	}

	var cmd *models.CommandTemplate
	var outcome EnsureOutcome
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := getToolByID(ctx, tx, toolID); err != nil {
			return err
		}
		var err error
		cmd, outcome, err = upsertCommand(ctx, tx, toolID, in, true)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return cmd, outcome == EnsureCreated, nil
}

// GetToolByID retrieves a tool by its ID.
func (s *CatalogService) GetToolByID(ctx context.Context, id string) (*models.Tool, error) {
	return getToolByID(ctx, s.db, id)
}

// FindToolByName retrieves a tool by its unique name.
func (s *CatalogService) FindToolByName(ctx context.Context, name string) (*models.Tool, error) {
	return findToolByName(ctx, s.db, name)
}

// ListTools retrieves all tools ordered by name. A positive limit caps the result.
func (s *CatalogService) ListTools(ctx context.Context, limit int) ([]models.Tool, error) {
	query := "SELECT " + toolColumns + " FROM tools ORDER BY name"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	tools := make([]models.Tool, 0)
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		tools = append(tools, *tool)
	}
	return tools, rows.Err()
}

// ListToolsWithCommands returns every tool with its commands, both ordered by name.
func (s *CatalogService) ListToolsWithCommands(ctx context.Context) ([]models.ToolPayload, error) {
	return listToolsWithCommands(ctx, s.db)
}

// GetCommandByID retrieves a command by its ID.
func (s *CatalogService) GetCommandByID(ctx context.Context, id string) (*models.CommandTemplate, error) {
	return getCommandByID(ctx, s.db, id)
}

// FindCommand retrieves the command named name under toolID.
func (s *CatalogService) FindCommand(ctx context.Context, toolID, name string) (*models.CommandTemplate, error) {
	return findCommand(ctx, s.db, toolID, name)
}

// CreateCommand adds a command to a tool. It fails with ErrCommandExists when
// the tool already has a command with the same name; nothing is written then.
func (s *CatalogService) CreateCommand(ctx context.Context, toolID string, in models.CommandInput) (*models.CommandTemplate, error) {
	if err := validation.ValidateCommand(in.Name, in.Template, in.Category); err != nil {
		return nil, err
	}
	if _, err := getToolByID(ctx, s.db, toolID); err != nil {
		return nil, err
	}

	cmd, err := insertCommand(ctx, s.db, toolID, in)
	if err != nil {
		return nil, err
	}
	return cmd, nil
}

// UpdateCommand reassigns every mutable field of a command, including its
// owning tool. A name clash under the target tool rolls the change back and
// returns ErrCommandExists.
func (s *CatalogService) UpdateCommand(ctx context.Context, id, toolID string, in models.CommandInput) (*models.CommandTemplate, error) {
	if err := validation.ValidateCommand(in.Name, in.Template, in.Category); err != nil {
		return nil, err
	}

	var cmd *models.CommandTemplate
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		existing, err := getCommandByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := getToolByID(ctx, tx, toolID); err != nil {
			return err
		}

		tags, err := encodeTags(in.Tags)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE command_templates SET tool_id = ?, name = ?, description = ?, template = ?, category = ?, tags = ?, updated_at = ? WHERE id = ?",
			toolID, in.Name, in.Description, in.Template, in.Category, tags, now(), existing.ID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrCommandExists
			}
			return err
		}

		cmd, err = getCommandByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cmd, nil
}

// DeleteCommand deletes a command.
func (s *CatalogService) DeleteCommand(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM command_templates WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrCommandNotFound
	}
	return nil
}

// DeleteTool deletes a tool; its commands are removed by the foreign key cascade.
func (s *CatalogService) DeleteTool(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tools WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrToolNotFound
	}
	return nil
}

// Overview computes the dashboard summary.
func (s *CatalogService) Overview(ctx context.Context) (*models.Overview, error) {
	var ov models.Overview

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tools").Scan(&ov.ToolCount); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM command_templates").Scan(&ov.CommandCount); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT category) FROM command_templates WHERE category <> ''",
	).Scan(&ov.CategoryCount); err != nil {
		return nil, err
	}

	var latest models.CommandWithTool
	var tags string
	err := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.tool_id, c.name, c.description, c.template, c.category, c.tags, c.created_at, c.updated_at, t.name
		FROM command_templates c
		JOIN tools t ON t.id = c.tool_id
		ORDER BY c.updated_at DESC, c.name
		LIMIT 1
	`).Scan(&latest.ID, &latest.ToolID, &latest.Name, &latest.Description, &latest.Template,
		&latest.Category, &tags, &latest.CreatedAt, &latest.UpdatedAt, &latest.ToolName)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, err
	default:
		latest.Tags = decodeTags(tags)
		ov.LatestCommand = &latest
	}

	recent, err := s.ListTools(ctx, 5)
	if err != nil {
		return nil, err
	}
	ov.RecentTools = recent

	return &ov, nil
}

// ensureTool implements EnsureTool on q. applyDescription controls whether an
// existing tool's description may be replaced.
func ensureTool(ctx context.Context, q database.Querier, name, description string, applyDescription bool) (*models.Tool, EnsureOutcome, error) {
	tool, err := findToolByName(ctx, q, name)
	if errors.Is(err, ErrToolNotFound) {
		tool, err = insertTool(ctx, q, name, description)
		if err != nil {
			return nil, "", err
		}
		return tool, EnsureCreated, nil
	}
	if err != nil {
		return nil, "", err
	}

	if !applyDescription || description == "" || description == tool.Description {
		return tool, EnsureUnchanged, nil
	}

	if err := updateToolDescription(ctx, q, tool.ID, description); err != nil {
		return nil, "", err
	}
	tool, err = getToolByID(ctx, q, tool.ID)
	if err != nil {
		return nil, "", err
	}
	return tool, EnsureUpdated, nil
}

// upsertCommand creates the (toolID, name) command or, when overwrite is set,
// replaces its fields. Without overwrite an existing command is returned
// untouched with EnsureUnchanged.
func upsertCommand(ctx context.Context, q database.Querier, toolID string, in models.CommandInput, overwrite bool) (*models.CommandTemplate, EnsureOutcome, error) {
	existing, err := findCommand(ctx, q, toolID, in.Name)
	if errors.Is(err, ErrCommandNotFound) {
		cmd, err := insertCommand(ctx, q, toolID, in)
		if err != nil {
			return nil, "", err
		}
		return cmd, EnsureCreated, nil
	}
	if err != nil {
		return nil, "", err
	}

	if !overwrite {
		return existing, EnsureUnchanged, nil
	}

	tags, err := encodeTags(in.Tags)
	if err != nil {
		return nil, "", err
	}
	_, err = q.ExecContext(ctx,
		"UPDATE command_templates SET description = ?, template = ?, category = ?, tags = ?, updated_at = ? WHERE id = ?",
		in.Description, in.Template, in.Category, tags, now(), existing.ID,
	)
	if err != nil {
		return nil, "", err
	}

	cmd, err := getCommandByID(ctx, q, existing.ID)
	if err != nil {
		return nil, "", err
	}
	return cmd, EnsureUpdated, nil
}

func findToolByName(ctx context.Context, q database.Querier, name string) (*models.Tool, error) {
	row := q.QueryRowContext(ctx, "SELECT "+toolColumns+" FROM tools WHERE name = ?", name)
	tool, err := scanTool(row)
	if err == sql.ErrNoRows {
		return nil, ErrToolNotFound
	}
	return tool, err
}

func getToolByID(ctx context.Context, q database.Querier, id string) (*models.Tool, error) {
	if id == "" {
		return nil, ErrToolNotFound
	}
	row := q.QueryRowContext(ctx, "SELECT "+toolColumns+" FROM tools WHERE id = ?", id)
	tool, err := scanTool(row)
	if err == sql.ErrNoRows {
		return nil, ErrToolNotFound
	}
	return tool, err
}

func insertTool(ctx context.Context, q database.Querier, name, description string) (*models.Tool, error) {
	ts := now()
	tool := &models.Tool{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	_, err := q.ExecContext(ctx,
		"INSERT INTO tools (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		tool.ID, tool.Name, tool.Description, tool.CreatedAt, tool.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert tool %q: %w", name, err)
	}
	return tool, nil
}

func updateToolDescription(ctx context.Context, q database.Querier, id, description string) error {
	_, err := q.ExecContext(ctx,
		"UPDATE tools SET description = ?, updated_at = ? WHERE id = ?",
		description, now(), id,
	)
	return err
}

func getCommandByID(ctx context.Context, q database.Querier, id string) (*models.CommandTemplate, error) {
	if id == "" {
		return nil, ErrCommandNotFound
	}
	row := q.QueryRowContext(ctx, "SELECT "+commandColumns+" FROM command_templates WHERE id = ?", id)
	cmd, err := scanCommand(row)
	if err == sql.ErrNoRows {
		return nil, ErrCommandNotFound
	}
	return cmd, err
}

func findCommand(ctx context.Context, q database.Querier, toolID, name string) (*models.CommandTemplate, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+commandColumns+" FROM command_templates WHERE tool_id = ? AND name = ?",
		toolID, name,
	)
	cmd, err := scanCommand(row)
	if err == sql.ErrNoRows {
		return nil, ErrCommandNotFound
	}
	return cmd, err
}

func insertCommand(ctx context.Context, q database.Querier, toolID string, in models.CommandInput) (*models.CommandTemplate, error) {
	tags, err := encodeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	ts := now()
	cmd := &models.CommandTemplate{
		ID:          uuid.New().String(),
		ToolID:      toolID,
		Name:        in.Name,
		Description: in.Description,
		Template:    in.Template,
		Category:    in.Category,
		Tags:        decodeTags(tags),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	_, err = q.ExecContext(ctx,
		"INSERT INTO command_templates (id, tool_id, name, description, template, category, tags, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		cmd.ID, cmd.ToolID, cmd.Name, cmd.Description, cmd.Template, cmd.Category, tags, cmd.CreatedAt, cmd.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCommandExists
		}
		return nil, err
	}
	return cmd, nil
}

func listToolsWithCommands(ctx context.Context, q database.Querier) ([]models.ToolPayload, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+toolColumns+" FROM tools ORDER BY name")
	if err != nil {
		return nil, err
	}

	payload := make([]models.ToolPayload, 0)
	index := make(map[string]int)
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		index[tool.ID] = len(payload)
		payload = append(payload, models.ToolPayload{
			ID:          tool.ID,
			Name:        tool.Name,
			Description: tool.Description,
			Commands:    []models.CommandPayload{},
		})
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	// Tools are fully read before the second query so this works on a
	// single-connection pool.
	rows, err = q.QueryContext(ctx, "SELECT "+commandColumns+" FROM command_templates ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		cmd, err := scanCommand(rows)
		if err != nil {
			return nil, err
		}
		i, ok := index[cmd.ToolID]
		if !ok {
			continue
		}
		payload[i].Commands = append(payload[i].Commands, cmd.Payload())
	}
	return payload, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTool(row scanner) (*models.Tool, error) {
	var tool models.Tool
	if err := row.Scan(&tool.ID, &tool.Name, &tool.Description, &tool.CreatedAt, &tool.UpdatedAt); err != nil {
		return nil, err
	}
	return &tool, nil
}

func scanCommand(row scanner) (*models.CommandTemplate, error) {
	var cmd models.CommandTemplate
	var tags string
	if err := row.Scan(&cmd.ID, &cmd.ToolID, &cmd.Name, &cmd.Description, &cmd.Template,
		&cmd.Category, &tags, &cmd.CreatedAt, &cmd.UpdatedAt); err != nil {
		return nil, err
	}
	cmd.Tags = decodeTags(tags)
	return &cmd, nil
}

func encodeTags(tags []string) (string, error) {
	data, err := json.Marshal(ParseTags(tags))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeTags tolerates malformed rows by treating them as untagged.
func decodeTags(raw string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func now() time.Time {
	return time.Now().UTC()
}
