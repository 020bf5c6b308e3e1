package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sjc5/routekit/pkg/dispatch"
	"github.com/sjc5/routekit/pkg/errutil"
	"github.com/sjc5/routekit/pkg/middleware/healthcheck"
	"github.com/sjc5/routekit/pkg/middleware/secureheaders"
	"github.com/sjc5/routekit/pkg/mux"
	"github.com/sjc5/routekit/pkg/observe"
	"github.com/sjc5/routekit/pkg/response"
	"github.com/sjc5/routekit/pkg/validate"
)

type user struct {
	ID    int    `json:"id"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// exampleApp is the dispatcher served by `routekit serve` and listed by
// `routekit routes`.
type exampleApp struct {
	d        *dispatch.Dispatcher
	registry *prometheus.Registry
	metrics  *observe.Metrics
	tracing  *observe.Tracing
	log      *slog.Logger
}

func newExampleApp(log *slog.Logger) *exampleApp {
	registry := prometheus.NewRegistry()
	a := &exampleApp{
		registry: registry,
		metrics:  observe.NewMetrics(observe.WithRegistry(registry)),
		tracing:  observe.NewTracing(),
		log:      log,
	}

	v := validate.New()

	api := dispatch.New(dispatch.Options{Logger: log})
	api.Param("id", v.Param("numeric"))
	api.Get("/users/:id", dispatch.HandlerFunc(func(req *dispatch.Request, w http.ResponseWriter, next dispatch.Next) error {
		var params struct {
			ID int `json:"id"`
		}
		if err := v.ParamsInto(req, &params); err != nil {
			return err
		}
		return response.New(w).JSON(user{ID: params.ID, Name: "user", Email: "user@example.com"})
	}))
	api.Post("/users", validate.Body[user](v, "user"), dispatch.HandlerFunc(func(req *dispatch.Request, w http.ResponseWriter, next dispatch.Next) error {
		u, _ := validate.BodyFrom[user](req, "user")
		return response.New(w).JSON(u)
	}))
	api.Get("/teapot", dispatch.HandlerFunc(func(req *dispatch.Request, w http.ResponseWriter, next dispatch.Next) error {
		return errutil.WithStatus(errors.New("short and stout"), http.StatusTeapot)
	}))

	a.d = dispatch.New(dispatch.Options{
		Logger:   log,
		Observer: dispatch.Observers(a.metrics.Observer(), a.tracing.Observer()),
	})
	a.d.UseHandler(secureheaders.Middleware, healthcheck.Healthz)
	a.d.Use("/api", api)
	a.d.UseHandler(dispatch.ErrorHandlerFunc(renderError))
	return a
}

// renderError answers errors that carry a client status with their
// message. Anything else is a bare 500.
func renderError(err error, req *dispatch.Request, w http.ResponseWriter, next dispatch.Next) error {
	res := response.New(w)
	if res.IsCommitted() {
		next(dispatch.Fail(err))
		return nil
	}

	status := errutil.StatusOrDefault(err)
	msg := http.StatusText(status)
	if status < http.StatusInternalServerError {
		msg = err.Error()
	}

	res.SetHeader("Content-Type", "application/json")
	res.SetStatus(status)
	return json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (a *exampleApp) handler() http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	mux.Mount(r, "/", a.d,
		mux.WithLogger(a.log),
		mux.WithAccessLog(),
		mux.WithMethodNotAllowed(),
		mux.WithMiddleware(a.tracing.Wrap, a.metrics.Wrap),
	)
	return r
}
