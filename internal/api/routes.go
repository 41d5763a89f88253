package api

import (
	"net/http"

	"github.com/JaimeStill/nourish/internal/config"
	"github.com/JaimeStill/nourish/pkg/openapi"
	"github.com/JaimeStill/nourish/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	spec []byte,
) {
	maxUpload := cfg.API.MaxUploadSizeBytes()

	routes.Register(
		mux,
		domain.Labels.Handler(maxUpload).Routes(),
		domain.Detection.Handler(maxUpload).Routes(),
		domain.Corrections.Handler(maxUpload).Routes(),
		domain.Chat.Handler().Routes(),
		routes.Group{
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/openapi.json", Handler: openapi.ServeSpec(spec)},
			},
		},
	)
}
