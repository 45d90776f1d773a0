package router

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pandeptwidyaop/tool-catalog/internal/assets"
	"github.com/pandeptwidyaop/tool-catalog/internal/config"
	"github.com/pandeptwidyaop/tool-catalog/internal/handlers"
	"github.com/pandeptwidyaop/tool-catalog/internal/middleware"
	"github.com/pandeptwidyaop/tool-catalog/internal/placeholder"
	"github.com/pandeptwidyaop/tool-catalog/internal/services"
)

// TemplateFuncs are the helpers available to page templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"join":         strings.Join,
		"placeholders": placeholder.Extract,
		"label":        placeholder.Label,
		"formatTime": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04 UTC")
		},
	}
}

func New(cfg *config.Config, catalogService *services.CatalogService, transferService *services.TransferService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.PathPrefix(cfg.Server.PathPrefix))
	r.Use(middleware.Flashes(cfg.Server.SecureCookie))

	tmpl, err := template.New("").Funcs(TemplateFuncs()).ParseFS(assets.GetTemplatesFS(), "*.html")
	if err != nil {
		panic("Failed to parse templates: " + err.Error())
	}
	r.SetHTMLTemplate(tmpl)

	staticHandler := http.FileServer(http.FS(assets.GetStaticFS()))
	r.GET(cfg.Server.PathPrefix+"/static/*filepath", func(c *gin.Context) {
		c.Request.URL.Path = c.Param("filepath")
		staticHandler.ServeHTTP(c.Writer, c.Request)
	})

	prefix := r.Group(cfg.Server.PathPrefix)

	webHandler := handlers.NewWebHandler(catalogService, cfg.Server.PathPrefix)
	manageHandler := handlers.NewManageHandler(catalogService, cfg.Server.PathPrefix)
	transferHandler := handlers.NewTransferHandler(catalogService, transferService, cfg.Server.PathPrefix)
	apiHandler := handlers.NewAPIHandler(catalogService)
	versionHandler := handlers.NewVersionHandler()

	api := prefix.Group("/api")
	{
		api.GET("/version", versionHandler.Get)
		api.GET("/tools", apiHandler.Tools)
		api.GET("/commands/:id/render", apiHandler.RenderCommand)
	}

	web := prefix.Group("")
	web.Use(middleware.BodySizeLimit(cfg.Catalog.MaxImportBytes))
	web.Use(middleware.CSRFProtection(cfg.Server.SecureCookie))
	{
		web.GET("/", webHandler.Overview)
		web.GET("/composer", webHandler.Composer)
		web.GET("/library", webHandler.Library)

		web.GET("/manage", manageHandler.Page)
		web.POST("/manage", manageHandler.Submit)

		web.GET("/import", transferHandler.ImportPage)
		web.POST("/import", transferHandler.Import)
		web.GET("/export", transferHandler.Export)
	}

	if cfg.Server.PathPrefix != "" {
		r.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, cfg.Server.PathPrefix+"/")
		})
	}

	return r
}
