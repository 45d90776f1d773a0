package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pandeptwidyaop/tool-catalog/internal/middleware"
	"github.com/pandeptwidyaop/tool-catalog/internal/placeholder"
	"github.com/pandeptwidyaop/tool-catalog/internal/services"
)

// extraArgsParam is the query parameter appended verbatim to a rendered command.
const extraArgsParam = "extra_args"

// APIHandler serves the catalog as JSON.
type APIHandler struct {
	catalogService *services.CatalogService
}

// NewAPIHandler creates a new APIHandler instance.
func NewAPIHandler(catalogService *services.CatalogService) *APIHandler {
	return &APIHandler{catalogService: catalogService}
}

// Tools returns the tools payload, with the same ?q= and ?category= filters
// as the library page.
// GET /api/tools
func (h *APIHandler) Tools(c *gin.Context) {
	tools, err := h.catalogService.ListToolsWithCommands(c.Request.Context())
	if err != nil {
		log.Printf("Failed to list tools: %v (request %s)", err, middleware.GetRequestID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tools"})
		return
	}

	c.JSON(http.StatusOK, services.FilterTools(tools, c.Query("q"), c.Query("category")))
}

type placeholderField struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// RenderCommand substitutes query parameters into a command template.
// GET /api/commands/:id/render?target=10.0.0.1&extra_args=-v
func (h *APIHandler) RenderCommand(c *gin.Context) {
	cmd, err := h.catalogService.GetCommandByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrCommandNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "command not found"})
			return
		}
		log.Printf("Failed to load command: %v (request %s)", err, middleware.GetRequestID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load command"})
		return
	}

	values := make(map[string]string)
	fields := make([]placeholderField, 0)
	for _, name := range placeholder.Extract(cmd.Template) {
		value := c.Query(name)
		values[name] = value
		fields = append(fields, placeholderField{
			Name:  name,
			Label: placeholder.Label(name),
			Value: value,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           cmd.ID,
		"template":     cmd.Template,
		"command":      placeholder.Render(cmd.Template, values, c.Query(extraArgsParam)),
		"placeholders": fields,
		"missing":      placeholder.Missing(cmd.Template, values),
	})
}
