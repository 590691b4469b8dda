package http

import (
	"log/slog"
	"net/http"

	"github.com/aretw0/stratum"
	"github.com/aretw0/stratum/api"
	"github.com/aretw0/stratum/internal/logging"
	"github.com/aretw0/stratum/internal/metrics"
	"github.com/aretw0/stratum/pkg/cluster"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// Server serves the validation API and the record editor.
type Server struct {
	Validator *stratum.Validator
	Clusters  *cluster.Service
	Streams   *StreamManager

	metrics *metrics.Collector
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithMetrics records request metrics and serves them on /metrics.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = c
	}
}

// WithRateLimit throttles the API routes to rps requests per second.
// A non-positive rps disables the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithStreams shares a StreamManager, typically the one registered as the
// cluster service change handler.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithLogger configures request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler.
func NewHandler(v *stratum.Validator, svc *cluster.Service, opts ...Option) http.Handler {
	s := &Server{
		Validator: v,
		Clusters:  svc,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)
	r.Use(s.observe)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(api.Raw())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(s.throttle)

		r.Get("/types", s.ListTypes)
		r.Get("/types/categories", s.ListCategories)
		r.Get("/types/{tag}", s.DescribeType)
		r.Post("/validate/value", s.ValidateValue)
		r.Post("/validate/name", s.ValidateName)

		r.Get("/projects", s.ListProjects)
		r.Get("/projects/{project}/collections", s.ListCollections)
		r.Route("/projects/{project}/collections/{collection}/clusters", func(r chi.Router) {
			r.Get("/", s.ListClusters)
			r.Post("/", s.CreateCluster)
			r.Route("/{cluster}", func(r chi.Router) {
				r.Get("/", s.GetCluster)
				r.Delete("/", s.DropCluster)
				r.Get("/check", s.CheckCluster)
				r.Post("/records", s.AddRecord)
				r.Patch("/records/{id}", s.UpdateRecord)
				r.Delete("/records/{id}", s.DeleteRecord)
			})
		})
	})

	r.Get("/events", s.SubscribeEvents)

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Stratum API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`
