package prof

import (
	"net/http"
	"net/http/pprof"

	"github.com/labstack/echo/v4"
)

// Wrap adds routes of `net/http/pprof` under /debug/pprof.
func Wrap(e *echo.Echo) {
	g := e.Group("/debug/pprof")

	g.GET("", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/debug/pprof/")
	})

	g.GET("/", echo.WrapHandler(http.HandlerFunc(pprof.Index)))

	for _, p := range []string{"heap", "allocs", "goroutine", "block", "mutex", "threadcreate"} {
		g.GET("/"+p, echo.WrapHandler(pprof.Handler(p)))
	}

	g.GET("/cmdline", echo.WrapHandler(http.HandlerFunc(pprof.Cmdline)))
	g.GET("/profile", echo.WrapHandler(http.HandlerFunc(pprof.Profile)))
	g.GET("/trace", echo.WrapHandler(http.HandlerFunc(pprof.Trace)))
	g.Any("/symbol", echo.WrapHandler(http.HandlerFunc(pprof.Symbol)))
}
