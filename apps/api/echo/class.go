package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pgg/classroom/core"
	"github.com/pgg/classroom/core/class"
)

var errClsNotFoundInCtx = errors.New("class object not found in echo.Context")

type (
	classApiDeps struct {
		svc            class.Service
		validate       *validator.Validate
		logger         core.Logger
		allowedOrigins []string
		done           <-chan struct{}
	}

	classApi struct {
		classApiDeps
		upgrader websocket.Upgrader
	}
)

func registerClassAPI(g *echo.Group, deps classApiDeps) {
	api := classApi{
		classApiDeps: deps,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(deps.allowedOrigins),
		},
	}

	cg := g.Group("/classes")
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.POST("/load", api.load)
	cg.GET("/active", api.retrieveActive)
	cg.PUT("/active", api.setActive)
	cg.GET("/events", api.events)

	// detail endpoints
	dg := cg.Group("/:id", classCtxMiddleware(api.svc))
	dg.GET("", api.retrieve)
}

// Handlers

func (api *classApi) query(ctx echo.Context) error {
	filter := new(class.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []class.ClassInfo{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	classes, err := api.svc.Query(*filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []class.ClassInfo{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) create(ctx echo.Context) error {
	var data class.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	cls, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *classApi) load(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Load())
}

func (api *classApi) retrieve(ctx echo.Context) error {
	cls, ok := ctx.Get("object").(class.ClassInfo)
	if !ok {
		return errors.Wrap(errClsNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classApi) retrieveActive(ctx echo.Context) error {
	var resp ActiveClassResponse
	cls, err := api.svc.Active()
	switch errors.Cause(err) {
	case nil:
		resp.Class = &cls
	case class.ErrNoActiveClass:
	default:
		return errors.Wrap(err, "getting active class")
	}
	return ctx.JSON(http.StatusOK, resp)
}

// setActive leaves the active class unchanged when the requested class does not exist.
func (api *classApi) setActive(ctx echo.Context) error {
	var data class.SelectClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SelectClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cls, err := api.svc.SetActive(data.ID)
	if err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return errHttpClassNotFound
		}
		return errors.Wrap(err, "setting active class")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func classCtxMiddleware(svc class.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := strconv.Atoi(ctx.Param("id"))
			if err != nil {
				return errHttpNotFound
			}
			cls, err := svc.GetByID(id)
			if err != nil {
				if errors.Cause(err) == class.ErrNotFound {
					return errHttpClassNotFound
				}
				return errors.Wrap(err, "finding class by ID")
			}
			ctx.Set("object", cls)
			return next(ctx)
		}
	}
}

type ActiveClassResponse struct {
	Class *class.ClassInfo `json:"class"`
}
