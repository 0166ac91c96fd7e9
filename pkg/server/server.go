package server

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/rankserve/rankserve/internal/utils"
	"github.com/rankserve/rankserve/pkg/config"
	"github.com/rankserve/rankserve/pkg/history"
	"github.com/rankserve/rankserve/pkg/index"
	"github.com/rankserve/rankserve/pkg/rank"
)

// snapshotEvery bounds how many record requests pass between usage
// snapshot writes.
const snapshotEvery = 25

// Server handles the IPC for candidate ranking.
type Server struct {
	store    *index.Store
	tracker  *history.Tracker
	searcher *rank.Searcher

	config       *config.Config
	configPath   string
	snapshotPath string

	decoder *msgpack.Decoder
	encoder *msgpack.Encoder

	recordCount int
}

// NewServer creates a ranking server using stdin/stdout for IPC.
func NewServer(store *index.Store, tracker *history.Tracker, searcher *rank.Searcher, cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(store, tracker, searcher, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a ranking server over explicit streams.
func NewServerWithIO(store *index.Store, tracker *history.Tracker, searcher *rank.Searcher, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	return &Server{
		store:      store,
		tracker:    tracker,
		searcher:   searcher,
		config:     cfg,
		configPath: configPath,
		decoder:    msgpack.NewDecoder(r),
		encoder:    msgpack.NewEncoder(w),
	}
}

// SetSnapshotPath enables periodic usage snapshots at path.
func (s *Server) SetSnapshotPath(path string) {
	s.snapshotPath = path
}

// Start begins listening for IPC requests. It returns nil when the input
// stream closes.
func (s *Server) Start() error {
	log.Debug("Starting server")
	s.send(StatusResponse{Status: "ready"})

	for {
		var request Request
		if err := s.decoder.Decode(&request); err != nil {
			if err == io.EOF {
				s.flushSnapshot()
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			continue
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches one decoded request by action.
func (s *Server) handleRequest(request Request) {
	switch request.Action {
	case "", "rank":
		s.handleRank(request)
	case "record":
		s.handleRecord(request)
	case "scope":
		s.handleScope(request)
	case "config":
		s.handleConfig(request)
	case "status":
		s.send(StatusResponse{
			ID:         request.ID,
			Status:     "ok",
			Candidates: s.store.Len(),
			Tracked:    s.tracker.Len(),
		})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown action: %s", request.Action), 400)
	}
}

// handleRank scores the candidate set against the query and responds with
// the ranked, truncated suggestion list.
func (s *Server) handleRank(request Request) {
	if !utils.ValidQuery(request.Query, s.config.Server.MinQuery, s.config.Server.MaxQuery) {
		s.sendError(request.ID, "Query length out of bounds", 400)
		log.Debugf("Rejected query of length %d", len(request.Query))
		return
	}

	start := time.Now()
	results := s.searcher.SearchAll(s.store.All(), request.Query)
	elapsed := time.Since(start)

	if request.Limit > 0 && len(results) > request.Limit {
		results = results[:request.Limit]
	}

	suggestions := make([]Suggestion, len(results))
	for i, r := range results {
		suggestions[i] = Suggestion{
			Name:  r.Candidate.Name,
			Path:  r.Candidate.Path,
			Kind:  uint8(r.Candidate.Kind),
			Score: r.Score,
		}
	}
	log.Debugf("Ranked %d suggestions for %q in %v", len(suggestions), request.Query, elapsed)

	s.send(RankResponse{
		ID:          request.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// handleRecord notes a pick and periodically persists the usage snapshot.
func (s *Server) handleRecord(request Request) {
	if request.Identity == "" {
		s.sendError(request.ID, "Missing 'i' parameter", 400)
		return
	}
	s.tracker.Record(request.Identity)

	s.recordCount++
	if s.recordCount%snapshotEvery == 0 {
		s.flushSnapshot()
		s.tracker.Prune()
	}

	s.send(StatusResponse{ID: request.ID, Status: "ok", Tracked: s.tracker.Len()})
}

// handleScope switches the base directory. The incremental-search state is
// cleared inside SetScope: a result set from another scope is never a valid
// superset.
func (s *Server) handleScope(request Request) {
	s.searcher.SetScope(request.BaseDir)
	log.Debugf("Scope changed to %q", request.BaseDir)
	s.send(StatusResponse{ID: request.ID, Status: "ok"})
}

// handleConfig applies runtime limit updates and persists them.
func (s *Server) handleConfig(request Request) {
	if request.MaxResults != nil {
		s.searcher.SetMaxResults(*request.MaxResults)
	}
	if err := s.config.Update(s.configPath, request.MaxResults, request.MinQuery, request.MaxQuery); err != nil {
		log.Warnf("Persisting config update: %v", err)
	}
	s.send(StatusResponse{ID: request.ID, Status: "ok"})
}

func (s *Server) flushSnapshot() {
	if s.snapshotPath == "" {
		return
	}
	if err := s.tracker.Save(s.snapshotPath); err != nil {
		log.Warnf("Saving usage snapshot: %v", err)
	}
}

func (s *Server) send(response any) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Status: code})
}
