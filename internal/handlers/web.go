package handlers

import (
	"log"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/pandeptwidyaop/tool-catalog/internal/middleware"
	"github.com/pandeptwidyaop/tool-catalog/internal/models"
	"github.com/pandeptwidyaop/tool-catalog/internal/services"
	"github.com/pandeptwidyaop/tool-catalog/internal/version"
)

// WebHandler handles the read-only catalog pages.
type WebHandler struct {
	catalogService *services.CatalogService
	pathPrefix     string
}

// NewWebHandler creates a new WebHandler instance.
func NewWebHandler(catalogService *services.CatalogService, pathPrefix string) *WebHandler {
	return &WebHandler{
		catalogService: catalogService,
		pathPrefix:     pathPrefix,
	}
}

// Overview renders the dashboard with catalog counts and recent activity.
func (h *WebHandler) Overview(c *gin.Context) {
	overview, err := h.catalogService.Overview(c.Request.Context())
	if err != nil {
		renderError(c, "load overview", err)
		return
	}

	renderPage(c, h.pathPrefix, "overview.html", "overview", "Overview", gin.H{
		"Overview": overview,
	})
}

// Composer renders the command composer.
func (h *WebHandler) Composer(c *gin.Context) {
	tools, err := h.catalogService.ListToolsWithCommands(c.Request.Context())
	if err != nil {
		renderError(c, "load tools", err)
		return
	}

	renderPage(c, h.pathPrefix, "composer.html", "composer", "Composer", gin.H{
		"Tools": tools,
	})
}

// Library renders every tool with its commands, optionally filtered by
// ?q= (fuzzy) and ?category= (exact).
func (h *WebHandler) Library(c *gin.Context) {
	tools, err := h.catalogService.ListToolsWithCommands(c.Request.Context())
	if err != nil {
		renderError(c, "load tools", err)
		return
	}

	query := c.Query("q")
	category := c.Query("category")
	categories := services.Categories(tools)
	sort.Strings(categories)

	renderPage(c, h.pathPrefix, "library.html", "library", "Library", gin.H{
		"Tools":      tools,
		"Results":    services.FilterTools(tools, query, category),
		"Categories": categories,
		"Query":      query,
		"Category":   category,
	})
}

// renderPage fills in the layout fields every page template expects.
func renderPage(c *gin.Context, pathPrefix, name, nav, title string, data gin.H) {
	data["PathPrefix"] = pathPrefix
	data["Version"] = version.Version
	data["Nav"] = nav
	data["Title"] = title
	data["CSRFToken"] = middleware.GetCSRFToken(c)
	data["Flashes"] = middleware.PopFlashes(c)
	if _, ok := data["Tools"]; !ok {
		data["Tools"] = []models.ToolPayload{}
	}
	c.HTML(http.StatusOK, name, data)
}

func renderError(c *gin.Context, action string, err error) {
	log.Printf("Failed to %s: %v (request %s)", action, err, middleware.GetRequestID(c))
	c.String(http.StatusInternalServerError, "Something went wrong. Please try again.")
}
