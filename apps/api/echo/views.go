package echoapi

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pgg/classroom/core"
	appfs "github.com/pgg/classroom/fs"
)

// View is a page of the single-page application.
// Lazy views are fetched by the frontend on first visit.
type View struct {
	Path string
	Name string
	Lazy bool
}

var Views = []View{
	{Path: "/", Name: "teacher"},
	{Path: "/about", Name: "about", Lazy: true},
	{Path: "/Student", Name: "Student", Lazy: true},
	{Path: "/Login", Name: "Login", Lazy: true},
}

var indexTmpl = template.Must(template.ParseFS(appfs.FS, "web/index.gohtml"))

type indexData struct {
	AppName string
	View    string
	Lazy    bool
	APIBase string
}

func registerViews(e *echo.Echo, conf *core.Config, logger core.Logger) {
	for _, v := range Views {
		e.GET(v.Path, viewHandler(v, conf.AppName))
	}
	logger.Debug("Views registered", core.Fields{"count": len(Views)})
}

func viewHandler(v View, appName string) echo.HandlerFunc {
	data := indexData{
		AppName: appName,
		View:    v.Name,
		Lazy:    v.Lazy,
		APIBase: "/v1",
	}
	return func(ctx echo.Context) error {
		var buf bytes.Buffer
		if err := indexTmpl.Execute(&buf, data); err != nil {
			return errors.Wrapf(err, "rendering %s view", v.Name)
		}
		return ctx.HTMLBlob(http.StatusOK, buf.Bytes())
	}
}
