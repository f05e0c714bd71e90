// internal/server/server.go
package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"phoneshop-bot/internal/bot"
	"phoneshop-bot/internal/bot/formatter"
	"phoneshop-bot/internal/bot/matcher"
	"phoneshop-bot/internal/common/config"
	"phoneshop-bot/internal/common/logger"
	"phoneshop-bot/internal/common/observability"
	"phoneshop-bot/internal/convcache"
	"phoneshop-bot/internal/store"
)

// Server wires the conversational pipeline and the inventory store to
// the REST surface the WhatsApp bridge and the workflow engine call.
type Server struct {
	cfg       *config.Config
	logger    logger.Logger
	pipeline  *bot.Pipeline
	matcher   *matcher.Matcher
	inventory store.Inventory
	formatter *formatter.Formatter
	cache     *convcache.Cache
	obs       *observability.Observability
}

func New(
	cfg *config.Config,
	log logger.Logger,
	pipeline *bot.Pipeline,
	m *matcher.Matcher,
	inventory store.Inventory,
	f *formatter.Formatter,
	cache *convcache.Cache,
	obs *observability.Observability,
) *Server {
	return &Server{
		cfg:       cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "server"}),
		pipeline:  pipeline,
		matcher:   m,
		inventory: inventory,
		formatter: f,
		cache:     cache,
		obs:       obs,
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/webhook", s.handleWebhook).Methods(http.MethodPost)
	r.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/available-phones", s.handleCatalog).Methods(http.MethodGet)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": s.cfg.App.Name,
		"version": s.cfg.App.Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
