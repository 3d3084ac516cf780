package http

import (
	"net/http"

	"github.com/oyvinddd/officesports-sub001/internal/config"
	"github.com/oyvinddd/officesports-sub001/internal/ledger"
	"github.com/oyvinddd/officesports-sub001/internal/metrics"
	"github.com/oyvinddd/officesports-sub001/internal/notifier"
	"github.com/oyvinddd/officesports-sub001/internal/recorder"
	"github.com/oyvinddd/officesports-sub001/internal/season"
	"github.com/oyvinddd/officesports-sub001/internal/store"
)

func NewServer(lgr ledger.Ledger, rec recorder.Recorder, coordinator season.Coordinator, docs store.DocumentStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier) *Server {
	server := &Server{
		Ledger:         lgr,
		Recorder:       rec,
		Season:         coordinator,
		Docs:           docs,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches", Chain(s.RecordMatchHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("GET /players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("GET /teams", Chain(s.ListTeamsHandler(), paramsMiddleware))
	s.Router.Handle("GET /leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("GET /seasons", Chain(s.ListSeasonsHandler(), paramsMiddleware))
	s.Router.Handle("POST /seasons/rollover", Chain(s.RolloverHandler(), paramsMiddleware))
	s.Router.Handle("POST /record-match", Chain(s.RecordMatchPushHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
