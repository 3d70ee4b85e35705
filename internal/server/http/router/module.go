package router

import (
	"go.uber.org/fx"

	"github.com/polkiloo/gencart/internal/app"
	"github.com/polkiloo/gencart/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Options(
	fx.Provide(func(f *app.ShopFacade) handlers.ShopFacade { return f }),
	fx.Provide(Setup),
)
