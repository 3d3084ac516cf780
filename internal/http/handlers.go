package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oyvinddd/officesports-sub001/internal/ledger"
	"github.com/oyvinddd/officesports-sub001/internal/notifier"
	"github.com/oyvinddd/officesports-sub001/internal/recorder"
	"github.com/oyvinddd/officesports-sub001/internal/season"
	"github.com/slack-go/slack"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// recordMatchResponse is the JSON body returned for a recorded match.
type recordMatchResponse struct {
	Match   *ledger.Match                 `json:"match"`
	Scores  map[string]ledger.ScoreChange `json:"scores"`
	Streaks map[string]int                `json:"streaks"`
}

// RecordMatchHandler accepts a match submission, commits it and returns the
// resulting score changes.
func (s *Server) RecordMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub recorder.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		match, outcome, err := s.Recorder.RecordMatch(r.Context(), &sub, time.Now())
		if err != nil {
			status := recordErrorStatus(err)
			if status == http.StatusInternalServerError {
				log.Error("Failed to record match", "error", err)
			}
			http.Error(w, err.Error(), status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		resp := recordMatchResponse{Match: match, Scores: outcome.Scores, Streaks: outcome.Streaks}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

// recordErrorStatus maps recorder errors to HTTP status codes.
func recordErrorStatus(err error) int {
	var valErr *recorder.ValidationError
	var polErr *recorder.PolicyError
	var nfErr *recorder.NotFoundError
	switch {
	case errors.As(err, &valErr):
		return http.StatusBadRequest
	case errors.As(err, &polErr):
		return http.StatusForbidden
	case errors.As(err, &nfErr):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrTransientConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Ledger.ListPlayers(r.Context())
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(players); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

func (s *Server) ListTeamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teams, err := s.Ledger.ListTeams(r.Context())
		if err != nil {
			http.Error(w, "Failed to get teams", http.StatusInternalServerError)
			log.Error("Failed to get teams", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(teams); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := s.Docs.List(r.Context(), ledger.CollectionMatches)
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches", "error", err)
			return
		}
		matches := make([]*ledger.Match, 0, len(docs))
		for id, data := range docs {
			var match ledger.Match
			if err := json.Unmarshal(data, &match); err != nil {
				log.Error("Skipping malformed match record", "matchID", id, "error", err)
				continue
			}
			match.ID = id
			matches = append(matches, &match)
		}
		sort.Slice(matches, func(i, j int) bool { return matches[i].RecordedAt > matches[j].RecordedAt })

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(matches); err != nil {
			log.Error("Failed to encode matches to JSON", "error", err)
		}
	}
}

func (s *Server) ListSeasonsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seasons, err := s.Ledger.ListSeasons(r.Context())
		if err != nil {
			http.Error(w, "Failed to get seasons", http.StatusInternalServerError)
			log.Error("Failed to get seasons", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(seasons); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

// buildLeaderboard ranks every player with a stats entry for the sport by
// score, ties broken towards the lexicographically lowest player id.
func (s *Server) buildLeaderboard(r *http.Request, sport ledger.Sport) ([]notifier.LeaderboardEntry, error) {
	players, err := s.Ledger.ListPlayers(r.Context())
	if err != nil {
		return nil, err
	}
	ranked := make([]*ledger.Player, 0, len(players))
	for _, p := range players {
		if p.Stats[sport] != nil {
			ranked = append(ranked, p)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		si, sj := ranked[i].Stats[sport].Score, ranked[j].Stats[sport].Score
		if si != sj {
			return si > sj
		}
		return ranked[i].ID < ranked[j].ID
	})
	entries := make([]notifier.LeaderboardEntry, 0, len(ranked))
	for i, p := range ranked {
		stats := p.Stats[sport]
		entries = append(entries, notifier.LeaderboardEntry{
			Rank:          i + 1,
			Name:          p.Name,
			Nickname:      p.Nickname,
			Emoji:         p.Emoji,
			Score:         stats.Score,
			MatchesPlayed: stats.MatchesPlayed,
			SeasonWins:    stats.SeasonWins,
		})
	}
	return entries, nil
}

// LeaderboardHandler returns the ranked standings for one sport.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sport := ledger.Sport(r.URL.Query().Get("sport"))
		if sport == "" {
			sport = ledger.SportFoosball
		}

		entries, err := s.buildLeaderboard(r, sport)
		if err != nil {
			http.Error(w, "Failed to build leaderboard", http.StatusInternalServerError)
			log.Error("Failed to build leaderboard", "error", err, "sport", sport)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			log.Error("Failed to encode leaderboard to JSON", "error", err)
		}
	}
}

// rolloverResponse is the JSON body returned for a rollover run.
type rolloverResponse struct {
	State    season.State      `json:"state"`
	Period   string            `json:"period"`
	Winners  []season.Winner   `json:"winners"`
	Failures []rolloverFailure `json:"failures,omitempty"`
}

type rolloverFailure struct {
	Sport  ledger.Sport `json:"sport"`
	TeamID string       `json:"team_id"`
	Error  string       `json:"error"`
}

// RolloverHandler triggers the season rollover, typically from a monthly
// Cloud Scheduler job. Supports dry_run.
func (s *Server) RolloverHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)

		result, err := s.Season.Run(r.Context(), time.Now(), isDryRun)
		if err != nil {
			http.Error(w, "Season rollover failed", http.StatusInternalServerError)
			log.Error("Season rollover failed", "error", err)
			return
		}

		resp := rolloverResponse{State: result.State, Period: result.Period, Winners: result.Winners}
		for _, f := range result.Failures {
			resp.Failures = append(resp.Failures, rolloverFailure{Sport: f.Sport, TeamID: f.TeamID, Error: f.Err.Error()})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

// RecordMatchPushHandler accepts match submissions pushed from a pub/sub
// subscription. Permanent rejections are acked so the broker does not
// redeliver them forever; transient failures return 5xx for redelivery.
func (s *Server) RecordMatchPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received record match message", "body", string(bodyBytes))
		// Define a small struct to decode the incoming JSON's `data` field
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		// Parse the outer JSON to get `data`
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw payload bytes
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		var sub recorder.Submission
		if err := json.Unmarshal(rawData, &sub); err != nil {
			log.Error("Failed to unmarshal submission", "error", err)
			http.Error(w, "Invalid submission payload", http.StatusBadRequest)
			return
		}

		_, _, err = s.Recorder.RecordMatch(r.Context(), &sub, time.Now())
		if err != nil {
			status := recordErrorStatus(err)
			if status == http.StatusConflict || status == http.StatusInternalServerError {
				log.Error("Failed to record pushed match, requesting redelivery", "error", err)
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			// Permanent rejection; ack and drop.
			log.Warn("Dropping invalid pushed match", "error", err)
		}
		w.Write([]byte("OK"))
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
// The command text selects the sport and defaults to foosball.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		sport := parseSportText(r.FormValue("text"))

		entries, err := s.buildLeaderboard(r, sport)
		if err != nil {
			http.Error(w, "Failed to build leaderboard", http.StatusInternalServerError)
			log.Error("Failed to build leaderboard", "error", err, "sport", sport)
			return
		}

		msg, err := s.Notifier.FormatLeaderboardResponse(sport, entries)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}

// parseSportText maps free-form slash command text to a sport.
func parseSportText(text string) ledger.Sport {
	switch text {
	case "table-tennis", "table tennis", "tt":
		return ledger.SportTableTennis
	case "", "foosball":
		return ledger.SportFoosball
	default:
		return ledger.Sport(text)
	}
}
