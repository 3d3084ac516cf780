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

type Server struct {
	Ledger         ledger.Ledger
	Recorder       recorder.Recorder
	Season         season.Coordinator
	Docs           store.DocumentStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
}
