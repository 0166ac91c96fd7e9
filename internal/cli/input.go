// Package cli handles cmd line input and ranked output for DBG and testing
// various scoring features.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rankserve/rankserve/internal/utils"
	"github.com/rankserve/rankserve/pkg/history"
	"github.com/rankserve/rankserve/pkg/index"
	"github.com/rankserve/rankserve/pkg/rank"
)

// InputHandler reads queries from stdin and prints the ranked candidate
// list, with scores and timings, for each one.
type InputHandler struct {
	store    *index.Store
	tracker  *history.Tracker
	searcher *rank.Searcher

	minQueryLength int
	maxQueryLength int
	requestCount   int
}

// NewInputHandler handles initialization of the InputHandler with basic
// parameters.
func NewInputHandler(store *index.Store, tracker *history.Tracker, searcher *rank.Searcher, minLength, maxLength int) *InputHandler {
	return &InputHandler{
		store:          store,
		tracker:        tracker,
		searcher:       searcher,
		minQueryLength: minLength,
		maxQueryLength: maxLength,
	}
}

// Start begins the interface loop. It continuously prompts for input,
// reads a line from stdin, and ranks the candidate set against it. The
// loop terminates when stdin closes.
func (h *InputHandler) Start() error {
	log.Printf("RankServe CLI: %s candidates indexed", utils.FormatWithCommas(h.store.Len()))
	log.Print("type a query and press Enter to see ranked candidates (Ctrl+C to exit):")
	reader := bufio.NewReader(os.Stdin)

	for {
		log.Print("> ")
		query, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		h.handleQuery(strings.TrimSpace(query))
	}
}

// handleQuery ranks the candidate set for a single query and prints the
// result. A "!use <identity>" line records a usage event instead, so bonus
// behavior can be exercised interactively.
func (h *InputHandler) handleQuery(query string) {
	h.requestCount++

	if identity, ok := strings.CutPrefix(query, "!use "); ok {
		h.tracker.Record(strings.TrimSpace(identity))
		log.Printf("Recorded use of %q", strings.TrimSpace(identity))
		return
	}

	if !utils.ValidQuery(query, h.minQueryLength, h.maxQueryLength) {
		log.Errorf("Query length out of bounds: %q", query)
		return
	}

	start := time.Now()
	results := h.searcher.SearchAll(h.store.All(), query)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for query %q", elapsed, query)

	if len(results) == 0 {
		log.Warnf("No candidates matched %q", query)
		return
	}

	log.Printf("Top %d candidates for %q:", len(results), query)
	for i, r := range results {
		marker := " "
		if r.Candidate.IsContainer() {
			marker = "/"
		}
		clName := fmt.Sprintf("\033[38;5;75m%s\033[0m%s", r.Candidate.Name, marker)
		log.Printf("%2d. %-40s %-30s (score: %7.1f)", i+1, clName, r.Candidate.Path, r.Score)
	}
}
