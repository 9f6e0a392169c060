package web

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/swaggest/openapi-go"
	"github.com/swaggest/swgui"
	"github.com/swaggest/swgui/v5"
	"github.com/ziflex/lecho/v3"

	"binheap/internal/pkg/global"
	"binheap/internal/session"
	"binheap/internal/web/internal/prof"
	"binheap/internal/web/jsonrpc"
)

//go:embed description.md
var desc string

type jsonRpcRequest struct {
	ID json.RawMessage `json:"id"`
}

type Options struct {
	Token     string
	BodyLimit int64
	Debug     bool
}

func New(s *session.Store, opt Options) http.Handler {
	apiSchema := jsonrpc.OpenAPI{}
	apiSchema.Reflector().SpecEns().Info.Title = "binheap JSON-RPC"
	apiSchema.Reflector().SpecEns().Info.Version = global.Version
	apiSchema.Reflector().SpecEns().Info.WithDescription(desc)
	apiSchema.Reflector().SpecEns().SetAPIKeySecurity("api-key", echo.HeaderAuthorization, openapi.InHeader, "need set api header")

	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	h := &jsonrpc.Handler{
		OpenAPI:         &apiSchema,
		Validator:       v,
		Schema:          &jsonrpc.JSONSchemaValidator{},
		BodyLimit:       opt.BodyLimit,
		ValidateResults: opt.Debug || global.Dev,
	}

	server := echo.New()
	server.HideBanner = true
	server.HidePort = true
	server.Logger = lecho.From(log.Logger)

	server.Use(middleware.Recover())

	if opt.Debug {
		server.Debug = true
		prof.Wrap(server)
	}

	AddHeap(h, s)

	log.Debug().Strs("methods", h.Methods()).Msg("json-rpc methods registered")

	var auth echo.MiddlewareFunc = func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if opt.Token == "" || c.Request().Header.Get(echo.HeaderAuthorization) == opt.Token {
				return next(c)
			}

			var r jsonRpcRequest
			err := json.NewDecoder(c.Request().Body).Decode(&r)
			if err != nil {
				return c.JSON(http.StatusUnauthorized,
					jsonrpc.Response{
						JSONRPC: "2.0",
						Error: &jsonrpc.Error{
							Code:    jsonrpc.CodeParseError,
							Message: err.Error(),
						},
					},
				)
			}

			return c.JSON(http.StatusUnauthorized, jsonrpc.Response{
				JSONRPC: "2.0",
				ID:      r.ID,
				Error:   &jsonrpc.Error{Code: http.StatusUnauthorized, Message: "invalid token"},
			})
		}
	}

	server.POST("/json_rpc", echo.WrapHandler(h), auth)

	server.GET("/docs/openapi.json", echo.WrapHandler(h.OpenAPI))
	server.GET("/docs/*", echo.WrapHandler(v5.NewHandlerWithConfig(swgui.Config{
		Title:       apiSchema.Reflector().Spec.Info.Title,
		SwaggerJSON: "/docs/openapi.json",
		BasePath:    "/docs/",
		SettingsUI:  jsonrpc.SwguiSettings(map[string]string{"layout": "'BaseLayout'"}, "/json_rpc"),
	})))

	server.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/docs/")
	})

	return server
}
