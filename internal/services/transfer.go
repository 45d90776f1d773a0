package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pandeptwidyaop/tool-catalog/internal/database"
	"github.com/pandeptwidyaop/tool-catalog/internal/models"
	"github.com/pandeptwidyaop/tool-catalog/internal/validation"
)

var (
	// ErrEmptyPayload indicates an import was submitted without data.
	ErrEmptyPayload = errors.New("import payload is empty")
	// ErrInvalidJSON indicates the import payload is not valid JSON.
	ErrInvalidJSON = errors.New("import payload is not valid JSON")
	// ErrInvalidFormat indicates valid JSON with the wrong top-level shape.
	ErrInvalidFormat = errors.New(`JSON must be a list of tools or a { "tools": [...] } object`)
)

// TransferService translates between the catalog and its JSON document form.
type TransferService struct {
	db *database.DB
}

// NewTransferService creates a new TransferService instance.
func NewTransferService(db *database.DB) *TransferService {
	return &TransferService{db: db}
}

// Export builds the catalog document. IDs and timestamps are not included.
func (s *TransferService) Export(ctx context.Context) (*models.CatalogExport, error) {
	tools, err := listToolsWithCommands(ctx, s.db)
	if err != nil {
		return nil, err
	}

	doc := &models.CatalogExport{Tools: make([]models.ToolExport, 0, len(tools))}
	for _, tool := range tools {
		commands := make([]models.CommandExport, 0, len(tool.Commands))
		for _, cmd := range tool.Commands {
			commands = append(commands, models.CommandExport{
				Name:        cmd.Name,
				Description: cmd.Description,
				Template:    cmd.Template,
				Category:    cmd.Category,
				Tags:        cmd.Tags,
			})
		}
		doc.Tools = append(doc.Tools, models.ToolExport{
			Name:        tool.Name,
			Description: tool.Description,
			Commands:    commands,
		})
	}
	return doc, nil
}

// MarshalExport encodes doc with 2-space indentation. HTML characters are
// kept literal because templates routinely contain < and >.
func MarshalExport(doc *models.CatalogExport) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Import loads a catalog document in one transaction.
//
// The payload is either a list of tool objects or an object whose "tools"
// key holds that list. Entries that are not objects, or lack a name (or a
// template, for commands), are skipped. Existing tools and commands are only
// modified when overwrite is set. Any database error aborts the whole import.
func (s *TransferService) Import(ctx context.Context, payload string, overwrite bool) (*models.ImportResult, error) {
	entries, err := decodeToolEntries(payload)
	if err != nil {
		return nil, err
	}

	var result models.ImportResult
	err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
		result = models.ImportResult{}
		for _, raw := range entries {
			if err := importTool(ctx, tx, raw, overwrite, &result); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import aborted: %w", err)
	}
	return &result, nil
}

// Seed applies doc once under the migration name. It reads the same document
// shapes as Import and skips the same invalid entries. Existing tools get the
// seeded description and existing commands are overwritten, so seeds can be
// revised by shipping a document under a new name. It reports whether the
// seed ran.
func (s *TransferService) Seed(ctx context.Context, name string, doc []byte) (bool, error) {
	entries, err := decodeToolEntries(string(doc))
	if err != nil {
		return false, fmt.Errorf("decode seed %s: %w", name, err)
	}

	applied := false
	err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
		hasRun, err := database.HasMigrationRun(ctx, tx, name)
		if err != nil || hasRun {
			return err
		}

		var result models.ImportResult
		for _, raw := range entries {
			if err := importTool(ctx, tx, raw, true, &result); err != nil {
				return err
			}
		}

		batch, err := database.NextBatch(ctx, tx)
		if err != nil {
			return err
		}
		if err := database.RecordMigration(ctx, tx, name, batch); err != nil {
			return err
		}
		applied = true
		return nil
	})
	return applied, err
}

func decodeToolEntries(payload string) ([]any, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrEmptyPayload
	}

	var data any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	if obj, ok := data.(map[string]any); ok {
		data = obj["tools"]
	}
	entries, ok := data.([]any)
	if !ok {
		return nil, ErrInvalidFormat
	}
	return entries, nil
}

func importTool(ctx context.Context, q database.Querier, raw any, overwrite bool, result *models.ImportResult) error {
	entry, ok := raw.(map[string]any)
	if !ok {
		result.Skipped++
		return nil
	}

	name := strings.TrimSpace(stringify(entry["name"]))
	if validation.ValidateToolName(name) != nil {
		result.Skipped++
		return nil
	}
	description := strings.TrimSpace(stringify(entry["description"]))

	tool, outcome, err := ensureTool(ctx, q, name, description, overwrite)
	if err != nil {
		return err
	}
	if outcome == EnsureCreated {
		result.ToolsCreated++
	}

	rawCommands, present := entry["commands"]
	if !present {
		return nil
	}
	commands, ok := rawCommands.([]any)
	if !ok {
		return nil
	}

	for _, rawCmd := range commands {
		cmdEntry, ok := rawCmd.(map[string]any)
		if !ok {
			result.Skipped++
			continue
		}

		in := models.CommandInput{
			Name:        strings.TrimSpace(stringify(cmdEntry["name"])),
			Template:    strings.TrimSpace(stringify(cmdEntry["template"])),
			Description: strings.TrimSpace(stringify(cmdEntry["description"])),
			Category:    strings.TrimSpace(stringify(cmdEntry["category"])),
			Tags:        ParseTags(cmdEntry["tags"]),
		}
		if validation.ValidateCommand(in.Name, in.Template, in.Category) != nil {
			result.Skipped++
			continue
		}

		_, outcome, err := upsertCommand(ctx, q, tool.ID, in, overwrite)
		if err != nil {
			return err
		}
		switch outcome {
		case EnsureCreated:
			result.CommandsCreated++
		case EnsureUpdated:
			result.CommandsUpdated++
		}
	}
	return nil
}
