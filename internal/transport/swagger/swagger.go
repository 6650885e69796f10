package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Handler serves the swagger UI backed by the OpenAPI document the router
// exposes at /openapi.yml.
func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL("/openapi.yml"),
	)
}
