package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"upidash/internal/core"
	"upidash/internal/filter"
	"upidash/internal/log"
	"upidash/internal/middleware/ratelimit"
	"upidash/internal/middleware/security"
	"upidash/internal/middleware/trace"
	"upidash/internal/services"
	appweb "upidash/web"
)

// DashboardService is the pipeline the handlers drive.
type DashboardService interface {
	Path() string
	TopK() int
	Options(ctx context.Context) (filter.Options, error)
	OnFilterChanged(ctx context.Context, sel filter.Selection) (*services.View, error)
	Filtered(ctx context.Context, sel filter.Selection) ([]core.Transaction, []filter.Warning, error)
	Reload(ctx context.Context) (filter.Options, error)
}

// CacheStats exposes the dataset memo for readiness and metrics.
type CacheStats interface {
	Cached() []string
	Reads() int64
}

type Options struct {
	Addr            string
	Dashboard       DashboardService
	Cache           CacheStats
	CurrencySymbol  string
	RequestTimeout  time.Duration
	ReloadPerMinute int
	TrustedProxies  []string
	Logger          *log.Logger
}

type Server struct {
	http.Server
	templates      *template.Template
	dashboard      DashboardService
	cache          CacheStats
	currency       string
	requestTimeout time.Duration
	logger         *log.Logger

	securityDetector *security.Detector
	rateLimiter      *ratelimit.Limiter
	traceMiddleware  *trace.Middleware
	appMetrics       *appMetrics

	shutdownOnce sync.Once
}

type appMetrics struct {
	uptime     time.Time
	renders    atomic.Int64
	apiCalls   atomic.Int64
	exports    atomic.Int64
	reloads    atomic.Int64
	loadErrors atomic.Int64
}

// NewServer parses the embedded templates and wires routes and middleware.
func NewServer(opts Options) (*Server, error) {
	if opts.Dashboard == nil {
		return nil, fmt.Errorf("dashboard service is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "₹"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 7 * time.Second
	}

	s := &Server{
		dashboard:        opts.Dashboard,
		cache:            opts.Cache,
		currency:         opts.CurrencySymbol,
		requestTimeout:   opts.RequestTimeout,
		logger:           opts.Logger.WithComponent(log.ComponentHTTP),
		securityDetector: security.NewDetector(),
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.ReloadPerMinute}),
		appMetrics:       &appMetrics{uptime: time.Now()},
	}
	for _, cidr := range opts.TrustedProxies {
		if err := s.securityDetector.AddTrustedProxy(cidr); err != nil {
			s.rateLimiter.Stop()
			return nil, fmt.Errorf("trusted proxies: %w", err)
		}
	}
	s.traceMiddleware = trace.NewMiddleware(s.securityDetector.ExtractClientIP, opts.Logger)

	t, err := template.New("").Funcs(s.templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.rateLimiter.Stop()
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	mux := http.NewServeMux()

	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		s.rateLimiter.Stop()
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ui/dashboard", s.handleDashboardPartial)
	mux.Handle("/ui/reload", s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.handleRateLimited)(http.HandlerFunc(s.handleReload)))
	mux.HandleFunc("/api/options", s.handleAPIOptions)
	mux.HandleFunc("/api/dashboard", s.handleAPIDashboard)
	mux.HandleFunc("/export.csv", s.handleExport)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	var handler http.Handler = mux
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.securityDetector.Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)

	s.Server = http.Server{
		Addr:           opts.Addr,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s, nil
}

// Shutdown stops background work and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"currency": func(d decimal.Decimal) string {
			return core.FormatCurrency(d, s.currency)
		},
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"datetime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05")
		},
		"dict": func(kv ...any) (map[string]any, error) {
			if len(kv)%2 != 0 {
				return nil, fmt.Errorf("dict: odd number of arguments")
			}
			m := make(map[string]any, len(kv)/2)
			for i := 0; i < len(kv); i += 2 {
				key, ok := kv[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
				}
				m[key] = kv[i+1]
			}
			return m, nil
		},
	}
}
