package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pandeptwidyaop/tool-catalog/internal/middleware"
	"github.com/pandeptwidyaop/tool-catalog/internal/models"
	"github.com/pandeptwidyaop/tool-catalog/internal/services"
	"github.com/pandeptwidyaop/tool-catalog/internal/validation"
)

const (
	msgToolRequired      = "Tool name is required."
	msgSelectTool        = "Select a tool for the command."
	msgCommandRequired   = "Command name and template are required."
	msgCommandExists     = "A command with that name already exists for this tool."
	msgSelectCommand     = "Select a command to update."
	msgSelectDeleteCmd   = "Select a command to delete."
	msgSelectDeleteTool  = "Select a tool to delete."
	msgUnknownAction     = "Unknown action."
	msgUnexpectedFailure = "Something went wrong. Please try again."
)

// ManageHandler handles the form-backed catalog editor.
type ManageHandler struct {
	catalogService *services.CatalogService
	pathPrefix     string
}

// NewManageHandler creates a new ManageHandler instance.
func NewManageHandler(catalogService *services.CatalogService, pathPrefix string) *ManageHandler {
	return &ManageHandler{
		catalogService: catalogService,
		pathPrefix:     pathPrefix,
	}
}

// Page renders the manage page.
func (h *ManageHandler) Page(c *gin.Context) {
	tools, err := h.catalogService.ListToolsWithCommands(c.Request.Context())
	if err != nil {
		renderError(c, "load tools", err)
		return
	}

	renderPage(c, h.pathPrefix, "manage.html", "manage", "Manage", gin.H{
		"Tools": tools,
	})
}

// Submit dispatches a manage form by its action field, queues a flash
// message, and redirects back to the manage page.
func (h *ManageHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()

	switch form(c, "action") {
	case "add_tool":
		h.addTool(ctx, c)
	case "add_command":
		h.addCommand(ctx, c)
	case "update_command":
		h.updateCommand(ctx, c)
	case "delete_command":
		h.deleteCommand(ctx, c)
	case "delete_tool":
		h.deleteTool(ctx, c)
	default:
		middleware.AddFlash(c, middleware.FlashError, msgUnknownAction)
	}

	c.Redirect(http.StatusSeeOther, h.pathPrefix+"/manage")
}

func (h *ManageHandler) addTool(ctx context.Context, c *gin.Context) {
	name := form(c, "name")
	if name == "" {
		middleware.AddFlash(c, middleware.FlashError, msgToolRequired)
		return
	}

	tool, outcome, err := h.catalogService.EnsureTool(ctx, name, form(c, "description"))
	if err != nil {
		flashError(c, err)
		return
	}

	switch outcome {
	case services.EnsureCreated:
		middleware.AddFlash(c, middleware.FlashSuccess, fmt.Sprintf("Tool \"%s\" added.", tool.Name))
	case services.EnsureUpdated:
		middleware.AddFlash(c, middleware.FlashSuccess, fmt.Sprintf("Tool \"%s\" updated.", tool.Name))
	default:
		middleware.AddFlash(c, middleware.FlashInfo, fmt.Sprintf("Tool \"%s\" already exists.", tool.Name))
	}
}

func (h *ManageHandler) addCommand(ctx context.Context, c *gin.Context) {
	tool, ok := h.resolveTool(ctx, c)
	if !ok {
		return
	}

	in, ok := commandInput(c)
	if !ok {
		return
	}

	cmd, err := h.catalogService.CreateCommand(ctx, tool.ID, in)
	if err != nil {
		flashError(c, err)
		return
	}
	middleware.AddFlash(c, middleware.FlashSuccess, fmt.Sprintf("Command \"%s\" added to %s.", cmd.Name, tool.Name))
}

func (h *ManageHandler) updateCommand(ctx context.Context, c *gin.Context) {
	commandID := form(c, "command_id")
	if commandID == "" {
		middleware.AddFlash(c, middleware.FlashError, msgSelectCommand)
		return
	}
	if _, err := h.catalogService.GetCommandByID(ctx, commandID); err != nil {
		if errors.Is(err, services.ErrCommandNotFound) {
			middleware.AddFlash(c, middleware.FlashError, msgSelectCommand)
			return
		}
		flashError(c, err)
		return
	}

	tool, ok := h.resolveTool(ctx, c)
	if !ok {
		return
	}

	in, ok := commandInput(c)
	if !ok {
		return
	}

	cmd, err := h.catalogService.UpdateCommand(ctx, commandID, tool.ID, in)
	if err != nil {
		flashError(c, err)
		return
	}
	middleware.AddFlash(c, middleware.FlashSuccess, fmt.Sprintf("Command \"%s\" updated.", cmd.Name))
}

func (h *ManageHandler) deleteCommand(ctx context.Context, c *gin.Context) {
	commandID := form(c, "command_id")
	cmd, err := h.catalogService.GetCommandByID(ctx, commandID)
	if err != nil {
		if errors.Is(err, services.ErrCommandNotFound) {
			middleware.AddFlash(c, middleware.FlashError, msgSelectDeleteCmd)
			return
		}
		flashError(c, err)
		return
	}

	if err := h.catalogService.DeleteCommand(ctx, cmd.ID); err != nil {
		flashError(c, err)
		return
	}
	middleware.AddFlash(c, middleware.FlashSuccess, fmt.Sprintf("Command \"%s\" deleted.", cmd.Name))
}

func (h *ManageHandler) deleteTool(ctx context.Context, c *gin.Context) {
	tool, err := h.catalogService.GetToolByID(ctx, form(c, "tool_id"))
	if err != nil {
		if errors.Is(err, services.ErrToolNotFound) {
			middleware.AddFlash(c, middleware.FlashError, msgSelectDeleteTool)
			return
		}
		flashError(c, err)
		return
	}

	if err := h.catalogService.DeleteTool(ctx, tool.ID); err != nil {
		flashError(c, err)
		return
	}
	middleware.AddFlash(c, middleware.FlashSuccess, fmt.Sprintf("Tool \"%s\" deleted.", tool.Name))
}

// resolveTool loads the tool named by the tool_id field, flashing
// msgSelectTool when it is missing or unknown.
func (h *ManageHandler) resolveTool(ctx context.Context, c *gin.Context) (*models.Tool, bool) {
	toolID := form(c, "tool_id")
	if toolID == "" {
		middleware.AddFlash(c, middleware.FlashError, msgSelectTool)
		return nil, false
	}

	tool, err := h.catalogService.GetToolByID(ctx, toolID)
	if err != nil {
		if errors.Is(err, services.ErrToolNotFound) {
			middleware.AddFlash(c, middleware.FlashError, msgSelectTool)
		} else {
			flashError(c, err)
		}
		return nil, false
	}
	return tool, true
}

func commandInput(c *gin.Context) (models.CommandInput, bool) {
	in := models.CommandInput{
		Name:        form(c, "name"),
		Description: form(c, "description"),
		Template:    form(c, "template"),
		Category:    form(c, "category"),
		Tags:        services.ParseTags(form(c, "tags")),
	}
	if in.Name == "" || in.Template == "" {
		middleware.AddFlash(c, middleware.FlashError, msgCommandRequired)
		return in, false
	}
	return in, true
}

// flashError maps service and validation errors to user-facing messages.
// Anything unexpected is logged.
func flashError(c *gin.Context, err error) {
	var fieldErr *validation.FieldError

	switch {
	case errors.Is(err, services.ErrCommandExists):
		middleware.AddFlash(c, middleware.FlashError, msgCommandExists)
	case errors.Is(err, services.ErrToolNotFound):
		middleware.AddFlash(c, middleware.FlashError, msgSelectTool)
	case errors.Is(err, services.ErrCommandNotFound):
		middleware.AddFlash(c, middleware.FlashError, msgSelectCommand)
	case errors.As(err, &fieldErr):
		middleware.AddFlash(c, middleware.FlashError, fieldMessage(fieldErr))
	default:
		log.Printf("Manage action failed: %v (request %s)", err, middleware.GetRequestID(c))
		middleware.AddFlash(c, middleware.FlashError, msgUnexpectedFailure)
	}
}

func fieldMessage(err *validation.FieldError) string {
	field := strings.ToUpper(err.Field[:1]) + err.Field[1:]
	switch {
	case errors.Is(err, validation.ErrInputTooLong):
		return fmt.Sprintf("%s must be at most %d characters.", field, err.Limit)
	case errors.Is(err, validation.ErrInputInvalid):
		return fmt.Sprintf("%s contains invalid characters.", field)
	default:
		return fmt.Sprintf("%s is required.", field)
	}
}

// form returns a trimmed form value.
func form(c *gin.Context, key string) string {
	return strings.TrimSpace(c.PostForm(key))
}
