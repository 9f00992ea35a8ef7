// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/placeserve/placeserve/internal/utils"
	"github.com/placeserve/placeserve/pkg/suggest"
)

// InputHandler processes user queries from stdin, printing ranked
// suggestions. A query may carry a point for distance ranking with the
// syntax "query @ lat,lon"; without it results rank by population.
type InputHandler struct {
	suggester      *suggest.Suggester
	minQueryLength int
	maxQueryLength int
	suggestLimit   int
	noFilter       bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(suggester *suggest.Suggester, minLength, maxLength, limit int, noFilter bool) *InputHandler {
	return &InputHandler{
		suggester:      suggester,
		minQueryLength: minLength,
		maxQueryLength: maxLength,
		suggestLimit:   limit,
		noFilter:       noFilter,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("PlaceServe CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a place name and press Enter (append '@ lat,lon' for proximity, Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput processes one line and displays suggestions
func (h *InputHandler) handleInput(line string) {
	query, point, err := splitQuery(line)
	if err != nil {
		log.Errorf("Bad input: %v", err)
		return
	}

	if len(query) < h.minQueryLength {
		log.Errorf("Query too short: %s", query)
		return
	}
	if len(query) > h.maxQueryLength {
		log.Errorf("Query too long: %s", query)
		return
	}

	if !h.noFilter {
		if !utils.IsValidQuery(query) {
			log.Warnf("No suggestions found for query: '%s' (filtered out)", query)
			return
		}
	} else {
		log.Debug("Input filtering disabled - allowing all inputs")
	}

	start := time.Now()
	suggestions, corrected, wasCorrected := h.suggester.SuggestCorrected(query, point, h.suggestLimit)
	elapsed := time.Since(start)

	log.Debugf("Took %v for query '%s'", elapsed, query)

	if len(suggestions) == 0 {
		log.Warnf("No suggestions found for query: '%s'", query)
		return
	}
	if wasCorrected {
		log.Debugf("Query '%s' was corrected to '%s'", query, corrected)
	}

	log.Printf("Found %d suggestions for query '%s':", len(suggestions), query)
	for i, s := range suggestions {
		clName := fmt.Sprintf("\033[38;5;75m%s\033[0m", s.Name)
		log.Printf("%2d. %-40s (%9.4f, %9.4f)  score %.2f", i+1, clName, s.Latitude, s.Longitude, s.Score)
	}
}

// splitQuery separates "query @ lat,lon" into its parts.
func splitQuery(line string) (string, *suggest.Point, error) {
	query, coords, found := strings.Cut(line, "@")
	query = strings.TrimSpace(query)
	if !found {
		return query, nil, nil
	}

	parts := strings.Split(coords, ",")
	if len(parts) != 2 {
		return query, nil, fmt.Errorf("expected '@ lat,lon', got %q", strings.TrimSpace(coords))
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		return query, nil, fmt.Errorf("non-numeric coordinates in %q", strings.TrimSpace(coords))
	}
	return query, &suggest.Point{Latitude: lat, Longitude: lon}, nil
}
