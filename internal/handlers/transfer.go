package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pandeptwidyaop/tool-catalog/internal/middleware"
	"github.com/pandeptwidyaop/tool-catalog/internal/services"
)

const (
	msgEmptyPayload  = "Paste JSON data to import."
	msgInvalidJSON   = "Invalid JSON. Please check the format and try again."
	msgInvalidFormat = `JSON must be a list of tools or a { "tools": [...] } object.`

	exportFilename = "tool-catalog.json"
)

// TransferHandler handles catalog import and export.
type TransferHandler struct {
	catalogService  *services.CatalogService
	transferService *services.TransferService
	pathPrefix      string
}

// NewTransferHandler creates a new TransferHandler instance.
func NewTransferHandler(catalogService *services.CatalogService, transferService *services.TransferService, pathPrefix string) *TransferHandler {
	return &TransferHandler{
		catalogService:  catalogService,
		transferService: transferService,
		pathPrefix:      pathPrefix,
	}
}

// ImportPage renders the import form and export link.
func (h *TransferHandler) ImportPage(c *gin.Context) {
	overview, err := h.catalogService.Overview(c.Request.Context())
	if err != nil {
		renderError(c, "load overview", err)
		return
	}

	renderPage(c, h.pathPrefix, "import.html", "import", "Import / Export", gin.H{
		"ToolCount": overview.ToolCount,
	})
}

// Import loads a pasted catalog document and redirects back to the import page.
func (h *TransferHandler) Import(c *gin.Context) {
	defer c.Redirect(http.StatusSeeOther, h.pathPrefix+"/import")

	if form(c, "action") != "import_data" {
		middleware.AddFlash(c, middleware.FlashError, msgUnknownAction)
		return
	}

	payload := c.PostForm("payload")
	overwrite := c.PostForm("overwrite") == "on"

	result, err := h.transferService.Import(c.Request.Context(), payload, overwrite)
	switch {
	case errors.Is(err, services.ErrEmptyPayload):
		middleware.AddFlash(c, middleware.FlashError, msgEmptyPayload)
		return
	case errors.Is(err, services.ErrInvalidJSON):
		middleware.AddFlash(c, middleware.FlashError, msgInvalidJSON)
		return
	case errors.Is(err, services.ErrInvalidFormat):
		middleware.AddFlash(c, middleware.FlashError, msgInvalidFormat)
		return
	case err != nil:
		log.Printf("Import failed: %v (request %s)", err, middleware.GetRequestID(c))
		middleware.AddFlash(c, middleware.FlashError, msgUnexpectedFailure)
		return
	}

	middleware.AddFlash(c, middleware.FlashSuccess, fmt.Sprintf(
		"Import complete: %d tools, %d commands, %d updated.",
		result.ToolsCreated, result.CommandsCreated, result.CommandsUpdated,
	))
	if result.Skipped > 0 {
		middleware.AddFlash(c, middleware.FlashInfo, fmt.Sprintf("%d invalid entries skipped.", result.Skipped))
	}
}

// Export downloads the whole catalog as an indented JSON document.
func (h *TransferHandler) Export(c *gin.Context) {
	doc, err := h.transferService.Export(c.Request.Context())
	if err != nil {
		renderError(c, "export catalog", err)
		return
	}

	data, err := services.MarshalExport(doc)
	if err != nil {
		renderError(c, "encode catalog", err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+exportFilename)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}
