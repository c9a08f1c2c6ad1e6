package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/truthprism/prism/internal/api/v1"
	"github.com/truthprism/prism/internal/api/ws"
)

func registerAuthRoutes(api huma.API, authSvc v1.Authenticator) {
	v1.RegisterAuthRoutes(api, authSvc)
}

func registerAPIRoutes(api huma.API, svcs Services) {
	v1.RegisterCompanyRoutes(api, svcs.Companies)
	v1.RegisterRoleRoutes(api, svcs.Roles)
	v1.RegisterMarketRoutes(api, svcs.Markets)
	v1.RegisterBetRoutes(api, svcs.Betting, svcs.Payouts)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/companies/{key}", hub.ServeCompanyFeed)
	r.Get("/markets/{key}", hub.ServeMarketFeed)
}
