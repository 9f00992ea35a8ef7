package server

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/placeserve/placeserve/pkg/config"
	"github.com/placeserve/placeserve/pkg/suggest"
)

// Server handles the IPC for place suggestions
type Server struct {
	suggester *suggest.Suggester
	cfg       *config.Config
	dec       *msgpack.Decoder
	enc       *msgpack.Encoder
}

// NewServer creates a suggestion server using stdin/stdout for IPC
func NewServer(suggester *suggest.Suggester, cfg *config.Config) *Server {
	return NewServerWithIO(suggester, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server over explicit streams, used by tests.
func NewServerWithIO(suggester *suggest.Suggester, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	return &Server{
		suggester: suggester,
		cfg:       cfg,
		dec:       msgpack.NewDecoder(r),
		enc:       msgpack.NewEncoder(w),
	}
}

// Start begins listening for IPC requests. It returns nil when the client
// closes its end of the stream.
func (s *Server) Start() error {
	log.Debug("Starting server.")

	// Signal that the server is ready
	s.send(map[string]string{"status": "ready"})

	for {
		var request SuggestRequest
		if err := s.dec.Decode(&request); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid request encoding", 400)
			return err
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches an incoming request
func (s *Server) handleRequest(request SuggestRequest) {
	switch request.Cmd {
	case "", "suggest":
		s.handleSuggest(request)
	case "health":
		s.send(map[string]string{"status": "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown command: %s", request.Cmd), 400)
	}
}

// handleSuggest validates the request, runs the pipeline and sends the
// response. Parameter presence is enforced here, not in the core: an empty
// query is a client error, mismatched or non-finite coordinates likewise.
func (s *Server) handleSuggest(request SuggestRequest) {
	query := request.Query

	if query == "" {
		s.sendError(request.ID, "Missing 'q' parameter", 400)
		log.Debug("Query is empty in request")
		return
	}
	if len(query) < s.cfg.Server.MinPrefix {
		s.sendError(request.ID, fmt.Sprintf("Query must be at least %d characters", s.cfg.Server.MinPrefix), 400)
		return
	}
	if len(query) > s.cfg.Server.MaxPrefix {
		s.sendError(request.ID, fmt.Sprintf("Query exceeds maximum length of %d characters", s.cfg.Server.MaxPrefix), 400)
		return
	}

	point, err := pointFromRequest(request)
	if err != nil {
		s.sendError(request.ID, err.Error(), 400)
		return
	}

	limit := request.Limit
	if limit < 1 {
		limit = s.cfg.Server.MaxResults
	}
	if limit > s.cfg.Server.MaxLimit {
		limit = s.cfg.Server.MaxLimit
	}

	start := time.Now()
	var suggestions []suggest.Suggestion
	corrected := ""
	wasCorrected := false
	if request.Fuzzy {
		suggestions, corrected, wasCorrected = s.suggester.SuggestCorrected(query, point, limit)
	} else {
		suggestions = s.suggester.Suggest(query, point, limit)
	}
	elapsed := time.Since(start)

	status := 200
	if len(suggestions) == 0 {
		status = 404
	}

	response := SuggestResponse{
		ID:             request.ID,
		Suggestions:    make([]ResponseSuggestion, len(suggestions)),
		Count:          len(suggestions),
		Status:         status,
		TimeTaken:      elapsed.Microseconds(),
		WasCorrected:   wasCorrected,
		CorrectedQuery: corrected,
	}
	for i, sg := range suggestions {
		response.Suggestions[i] = ResponseSuggestion{
			Name:      sg.Name,
			Latitude:  sg.Latitude,
			Longitude: sg.Longitude,
			Score:     sg.Score,
		}
	}
	s.send(response)
}

// pointFromRequest turns optional coordinates into a ranking point. Both or
// neither must be supplied, and both must be finite.
func pointFromRequest(request SuggestRequest) (*suggest.Point, error) {
	if request.Latitude == nil && request.Longitude == nil {
		return nil, nil
	}
	if request.Latitude == nil || request.Longitude == nil {
		return nil, errors.New("Both 'lat' and 'lon' are required for distance ranking")
	}
	lat, lon := *request.Latitude, *request.Longitude
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return nil, errors.New("Invalid 'lat'/'lon' parameter")
	}
	return &suggest.Point{Latitude: lat, Longitude: lon}, nil
}

// send encodes a response onto the output stream
func (s *Server) send(response interface{}) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{
		ID:    id,
		Error: message,
		Code:  code,
	})
}
