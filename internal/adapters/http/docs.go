package http

import (
	"context"
	"log/slog"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"
)

const defaultDocsSpec = "api/openapi.yaml"

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Drone Survey API · Swagger UI</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
  <style>body{margin:0;background:#fafafa}</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '/docs/openapi.json',
      dom_id: '#swagger-ui',
      deepLinking: true,
      docExpansion: 'none',
      tagsSorter: 'alpha',
      presets: [SwaggerUIBundle.presets.apis],
    });
  </script>
</body>
</html>`

// apiDocs is the OpenAPI document loaded once at startup.
type apiDocs struct {
	raw []byte
	doc *openapi3.T
}

// loadDocs reads and validates the OpenAPI document at path. An invalid
// document is still served raw so that it can be inspected.
func loadDocs(path string) *apiDocs {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("openapi document unavailable, /docs disabled", "path", path, "error", err)
		return nil
	}
	docs := &apiDocs{raw: data}
	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		slog.Warn("openapi document does not parse", "path", path, "error", err)
		return docs
	}
	if err := doc.Validate(context.Background()); err != nil {
		slog.Warn("openapi document is invalid", "path", path, "error", err)
	}
	docs.doc = doc
	return docs
}

// SetupDocs registers Swagger UI at /docs and the OpenAPI document at
// /docs/openapi.yaml and /docs/openapi.json.
func SetupDocs(app *fiber.App, specPath string) {
	if specPath == "" {
		specPath = defaultDocsSpec
	}
	docs := loadDocs(specPath)

	app.Get("/docs", func(c *fiber.Ctx) error {
		if docs == nil {
			return newError(c, fiber.StatusNotFound, "not_found", "api documentation not available")
		}
		c.Set("Content-Type", "text/html; charset=utf-8")
		return c.SendString(swaggerUIHTML)
	})

	app.Get("/docs/openapi.yaml", func(c *fiber.Ctx) error {
		if docs == nil {
			return newError(c, fiber.StatusNotFound, "not_found", "openapi document not available")
		}
		c.Set("Content-Type", "application/yaml")
		return c.Send(docs.raw)
	})

	app.Get("/docs/openapi.json", func(c *fiber.Ctx) error {
		if docs == nil || docs.doc == nil {
			return newError(c, fiber.StatusNotFound, "not_found", "openapi document not available")
		}
		return c.JSON(docs.doc)
	})
}
