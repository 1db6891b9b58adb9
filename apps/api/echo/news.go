package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core/news"
	"github.com/darasa-app/darasa/core/user"
)

type newsApi struct {
	svc      news.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerNewsAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := newsApi{
		svc:      deps.NewsSvc,
		usrSvc:   deps.UserSvc,
		validate: deps.Validate,
	}

	ng := g.Group("/news", jwt)
	ng.GET("", api.query)
	ng.GET("/group/:group", api.queryGroup)
	ng.POST("", api.create, staffMiddleware())
}

func (api *newsApi) query(ctx echo.Context) error {
	items, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying news")
	}
	if items == nil {
		items = []news.News{}
	}
	return respondList(ctx, http.StatusOK, "news", items, len(items))
}

func (api *newsApi) queryGroup(ctx echo.Context) error {
	items, err := api.svc.QueryForGroup(ctx.Request().Context(), ctx.Param("group"))
	if err != nil {
		return errors.Wrap(err, "querying news for group")
	}
	if items == nil {
		items = []news.News{}
	}
	return respondList(ctx, http.StatusOK, "news", items, len(items))
}

func (api *newsApi) create(ctx echo.Context) error {
	var data news.NewNews
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNews")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	item, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating news")
	}
	return respond(ctx, http.StatusCreated, "news", item)
}
