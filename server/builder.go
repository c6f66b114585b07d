package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"time"

	"github.com/SaiNageswarS/go-ajax-boot/ajax"
	"github.com/SaiNageswarS/go-ajax-boot/logger"
	"github.com/SaiNageswarS/go-ajax-boot/metrics"
	"github.com/SaiNageswarS/go-ajax-boot/util"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"
)

// ─── public fluent builder ───────────────────────────────────
type Builder struct {
	httpPort  string
	staticDir string

	cors       *cors.Cors
	extra      map[string]http.HandlerFunc
	middleware []mux.MiddlewareFunc
	log        *zap.Logger
	metrics    *metrics.Recorder

	singletons  map[reflect.Type]reflect.Value
	providers   map[reflect.Type]reflect.Value
	controllers []reflect.Value

	// ajax gate
	strategy ajax.Strategy
	hooks    []DispatchHook

	// temporal worker for DI
	taskQueue          string
	activityRegs       []reflect.Value
	workflowRegs       []interface{}
	temporalClientOpts *client.Options
}

func New() *Builder {
	return &Builder{
		cors:       DefaultCORS(),
		extra:      map[string]http.HandlerFunc{},
		log:        logger.Get(),
		singletons: map[reflect.Type]reflect.Value{},
		providers:  map[reflect.Type]reflect.Value{},
	}
}

// DefaultCORS allows the headers XHR clients send, including the
// X-Requested-With header the AJAX gate relies on. No origins means any.
func DefaultCORS(origins ...string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: len(origins) > 0,
	})
}

// ----- basic wiring ----------------------------------------------------------

func (b *Builder) HTTPPort(p string) *Builder { b.httpPort = p; return b }

// StaticDir sets the directory to serve static files from (e.g., "./static").
// Static files will be served on the same HTTP port at /static/* path.
func (b *Builder) StaticDir(dir string) *Builder { b.staticDir = dir; return b }

func (b *Builder) CORS(c *cors.Cors) *Builder { b.cors = c; return b }

func (b *Builder) Handle(pattern string, h http.HandlerFunc) *Builder {
	b.extra[pattern] = h
	return b
}

// Use appends router middleware, run after access logging and panic recovery.
func (b *Builder) Use(mw ...mux.MiddlewareFunc) *Builder {
	b.middleware = append(b.middleware, mw...)
	return b
}

func (b *Builder) Logger(log *zap.Logger) *Builder { b.log = log; return b }

func (b *Builder) Metrics(rec *metrics.Recorder) *Builder { b.metrics = rec; return b }

// ----- ajax gate ---------------------------------------------------------------

// GateStrategy selects whether forwarded sub-requests are gated too.
func (b *Builder) GateStrategy(s ajax.Strategy) *Builder { b.strategy = s; return b }

// OnController adds a listener run before every controller action.
func (b *Builder) OnController(hook DispatchHook) *Builder {
	if hook == nil {
		logger.Fatal("dispatch hook must not be nil")
	}
	b.hooks = append(b.hooks, hook)
	return b
}

// ---- temporal worker -----------------------------------------------------

// WithTemporal dials Temporal during Build, provides the client.Client to
// factories and runs a worker on taskQueue.
func (b *Builder) WithTemporal(taskQueue string, opts *client.Options) *Builder {
	b.taskQueue = taskQueue
	b.temporalClientOpts = opts
	return b
}

func (b *Builder) RegisterTemporalWorkflow(w interface{}) *Builder {
	if w == nil {
		logger.Fatal("temporal workflow factory must not be nil")
	}
	b.workflowRegs = append(b.workflowRegs, w)
	return b
}

func (b *Builder) RegisterTemporalActivity(factory any) *Builder {
	v := reflect.ValueOf(factory)
	if !isFactory(v) {
		logger.Fatal("activity receiver factory must be a func", zap.Any("received", factory))
	}
	b.activityRegs = append(b.activityRegs, v)
	return b
}

// ----- dependency injection --------------------------------------------------

func (b *Builder) Provide(value any) *Builder {
	b.singletons[reflect.TypeOf(value)] = reflect.ValueOf(value)
	return b
}

func (b *Builder) ProvideAs(value any, ifacePtr any) *Builder {
	ifaceType := reflect.TypeOf(ifacePtr).Elem()
	val := reflect.ValueOf(value)

	if !val.Type().Implements(ifaceType) {
		logger.Fatal("Provided value does not implement the given interface",
			zap.String("valueType", val.Type().String()),
			zap.String("interfaceType", ifaceType.String()))
	}

	b.singletons[ifaceType] = val
	return b
}

// ProvideFunc registers a lazy provider, func(deps...) T or
// func(deps...) (T, error), keyed by T.
func (b *Builder) ProvideFunc(fn any) *Builder {
	v := reflect.ValueOf(fn)
	if !isFactory(v) {
		logger.Fatal("ProvideFunc expects a function", zap.Any("received", fn))
	}
	b.providers[v.Type().Out(0)] = v
	return b
}

// RegisterController adds a controller built by factory, whose arguments are
// resolved from the container. The result must implement RestController.
func (b *Builder) RegisterController(factory any) *Builder {
	v := reflect.ValueOf(factory)
	if !isFactory(v) {
		logger.Fatal("controller factory must be a function", zap.Any("received", factory))
	}
	b.controllers = append(b.controllers, v)
	return b
}

// ----- Resolve DI and build servers/workers -----------------------------------------------------

func (b *Builder) Build() (*BootServer, error) {
	if b.httpPort == "" {
		return nil, errors.New("http port must be set")
	}

	router := mux.NewRouter()
	registry := ajax.NewRegistry()
	gate := ajax.NewGate(registry, b.log, b.metrics)

	// tiny DI container
	ctn := newContainer(b.singletons, b.providers)
	ctn.provideDefault(reflect.TypeOf(b.log), reflect.ValueOf(b.log))
	ctn.provideDefault(reflect.TypeOf(b.metrics), reflect.ValueOf(b.metrics))
	ctn.provideDefault(reflect.TypeOf(registry), reflect.ValueOf(registry))
	ctn.provideDefault(reflect.TypeOf(gate), reflect.ValueOf(gate))
	ctn.provideDefault(reflect.TypeOf(router), reflect.ValueOf(router))
	ctn.provideDefault(reflect.TypeOf((*ajax.URLResolver)(nil)).Elem(), reflect.ValueOf(NewURLResolver(router)))

	// Dial temporal first so factories can depend on client.Client.
	var tc client.Client
	if b.temporalClientOpts != nil {
		var err error
		tc, err = b.dialTemporal()
		if err != nil {
			return nil, err
		}
		ctn.provideDefault(reflect.TypeOf((*client.Client)(nil)).Elem(), reflect.ValueOf(tc))
	}

	router.Use(recoverer(b.log), accessLog(b.log))
	for _, mw := range b.middleware {
		router.Use(mw)
	}

	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// register extra handlers
	for p, h := range b.extra {
		router.HandleFunc(p, h)
	}

	// Add static file serving if configured
	if b.staticDir != "" {
		fileServer := http.FileServer(http.Dir(b.staticDir))
		router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fileServer))
	}

	d := &dispatcher{router: router, gate: gate, strategy: b.strategy, hooks: b.hooks, log: b.log}
	seen := map[string]bool{}
	for _, factory := range b.controllers {
		v, err := ctn.call(factory)
		if err != nil {
			return nil, fmt.Errorf("controller DI failed: %w", err)
		}
		ctrl, ok := v.Interface().(RestController)
		if !ok {
			return nil, fmt.Errorf("%v does not implement RestController", v.Type())
		}
		// the policy registry is keyed by controller name
		name := controllerName(ctrl)
		if seen[name] {
			return nil, fmt.Errorf("duplicate controller %q, implement NamedController to disambiguate", name)
		}
		seen[name] = true

		if err := registerController(router, registry, d, ctrl); err != nil {
			return nil, err
		}
	}

	lnHTTP, err := net.Listen("tcp", b.httpPort)
	if err != nil {
		return nil, err
	}

	httpSrv := &http.Server{
		Handler:      b.cors.Handler(router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Create a temporal worker if configured
	var tw worker.Worker
	if tc != nil {
		tw = worker.New(tc, b.taskQueue, worker.Options{})

		for _, f := range b.activityRegs {
			receiver, err := ctn.call(f)
			if err != nil {
				return nil, fmt.Errorf("activity DI failed: %w", err)
			}
			tw.RegisterActivity(receiver.Interface())
		}

		for _, wf := range b.workflowRegs {
			tw.RegisterWorkflow(wf)
		}
	}

	return &BootServer{
		http:           httpSrv,
		lnHTTP:         lnHTTP,
		router:         router,
		temporalWorker: tw,
		temporalClient: tc,
		log:            b.log,
	}, nil
}

var (
	dialTemporal         = client.Dial
	temporalDialAttempts = 5
	temporalDialDelay    = 10 * time.Second
)

func (b *Builder) dialTemporal() (client.Client, error) {
	var tc client.Client
	err := util.RetryWithExponentialBackoff(context.Background(), temporalDialAttempts, temporalDialDelay, func() error {
		var err error
		tc, err = dialTemporal(*b.temporalClientOpts)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create temporal client: %w", err)
	}
	return tc, nil
}

func registerController(router *mux.Router, registry *ajax.Registry, d *dispatcher, ctrl RestController) error {
	name := controllerName(ctrl)

	for _, route := range ctrl.Routes() {
		if route.Handler == nil {
			return fmt.Errorf("%s: route %q has no handler", name, route.Pattern)
		}
		if route.Name != "" && router.Get(route.Name) != nil {
			return fmt.Errorf("%s: duplicate route name %q", name, route.Name)
		}

		registry.Register(name, route.Action, route.Policy)

		r := router.HandleFunc(route.Pattern, d.wrap(name, route))
		if route.Method != "" {
			r.Methods(route.Method)
		}
		if route.Name != "" {
			r.Name(route.Name)
		}
	}
	return nil
}
