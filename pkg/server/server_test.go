package server

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/placeserve/placeserve/pkg/config"
	"github.com/placeserve/placeserve/pkg/gazetteer"
	"github.com/placeserve/placeserve/pkg/suggest"
)

const testHeader = "name\talt_name\tlat\tlong\tcountry\tadmin1\tpopulation"

func testSuggester(t *testing.T) *suggest.Suggester {
	t.Helper()
	rows := []string{
		"London\t\t51.5\t-0.1\tGB\tENG\t8000000",
		"London\t\t42.9\t-81.2\tCA\t08\t400000",
		"Montréal\tMontreal,YUL\t45.5\t-73.6\tCA\t10\t1700000",
		"New York\tNYC\t40.7\t-74.0\tUS\tNY\t8400000",
	}
	path := filepath.Join(t.TempDir(), "places.tsv")
	content := testHeader + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing source file: %v", err)
	}
	g, err := gazetteer.Load(path)
	if err != nil {
		t.Fatalf("loading gazetteer: %v", err)
	}
	return suggest.New(g)
}

// runServer feeds the encoded requests through a server and returns a decoder
// positioned after the ready message.
func runServer(t *testing.T, requests ...SuggestRequest) *msgpack.Decoder {
	t.Helper()

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range requests {
		if err := enc.Encode(req); err != nil {
			t.Fatalf("encoding request: %v", err)
		}
	}

	var out bytes.Buffer
	srv := NewServerWithIO(testSuggester(t), config.DefaultConfig(), &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("server returned error: %v", err)
	}

	dec := msgpack.NewDecoder(&out)
	var ready map[string]string
	if err := dec.Decode(&ready); err != nil {
		t.Fatalf("decoding ready message: %v", err)
	}
	if ready["status"] != "ready" {
		t.Fatalf("expected ready message, got %v", ready)
	}
	return dec
}

func decodeSuggest(t *testing.T, dec *msgpack.Decoder) SuggestResponse {
	t.Helper()
	var resp SuggestResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("decoding suggest response: %v", err)
	}
	return resp
}

func decodeError(t *testing.T, dec *msgpack.Decoder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	return resp
}

func TestServerSuggest(t *testing.T) {
	dec := runServer(t, SuggestRequest{ID: "1", Query: "Londo"})

	resp := decodeSuggest(t, dec)
	if resp.ID != "1" {
		t.Errorf("expected request id echoed back, got %q", resp.ID)
	}
	if resp.Status != 200 {
		t.Errorf("expected status 200, got %d", resp.Status)
	}
	if resp.Count != 2 || len(resp.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %+v", resp)
	}
	if resp.Suggestions[0].Latitude != 51.5 {
		t.Errorf("expected the larger London first, got %+v", resp.Suggestions[0])
	}
	if resp.Suggestions[0].Score != 0.83 {
		t.Errorf("expected score 0.83, got %v", resp.Suggestions[0].Score)
	}
}

func TestServerSuggestWithPoint(t *testing.T) {
	lat, lon := 43.0, -81.0
	dec := runServer(t, SuggestRequest{ID: "2", Query: "Londo", Latitude: &lat, Longitude: &lon})

	resp := decodeSuggest(t, dec)
	if resp.Status != 200 || len(resp.Suggestions) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Suggestions[0].Latitude != 42.9 {
		t.Errorf("expected the nearer London first, got %+v", resp.Suggestions[0])
	}
}

func TestServerNoMatch(t *testing.T) {
	dec := runServer(t, SuggestRequest{ID: "3", Query: "Zzzyzx"})

	resp := decodeSuggest(t, dec)
	if resp.Status != 404 {
		t.Errorf("expected status 404, got %d", resp.Status)
	}
	if resp.Count != 0 || len(resp.Suggestions) != 0 {
		t.Errorf("expected no suggestions, got %+v", resp)
	}
}

func TestServerMissingQuery(t *testing.T) {
	dec := runServer(t, SuggestRequest{ID: "4"})

	resp := decodeError(t, dec)
	if resp.Code != 400 {
		t.Errorf("expected code 400, got %d", resp.Code)
	}
	if resp.Error != "Missing 'q' parameter" {
		t.Errorf("unexpected error message: %q", resp.Error)
	}
	if resp.ID != "4" {
		t.Errorf("expected request id echoed back, got %q", resp.ID)
	}
}

func TestServerMismatchedCoordinates(t *testing.T) {
	lat := 43.0
	dec := runServer(t, SuggestRequest{ID: "5", Query: "Londo", Latitude: &lat})

	resp := decodeError(t, dec)
	if resp.Code != 400 {
		t.Errorf("expected code 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Error, "lat") || !strings.Contains(resp.Error, "lon") {
		t.Errorf("unexpected error message: %q", resp.Error)
	}
}

func TestServerQueryTooLong(t *testing.T) {
	cfg := config.DefaultConfig()
	long := strings.Repeat("a", cfg.Server.MaxPrefix+1)
	dec := runServer(t, SuggestRequest{ID: "6", Query: long})

	resp := decodeError(t, dec)
	if resp.Code != 400 {
		t.Errorf("expected code 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Error, fmt.Sprint(cfg.Server.MaxPrefix)) {
		t.Errorf("unexpected error message: %q", resp.Error)
	}
}

func TestServerLimitCapped(t *testing.T) {
	cfg := config.DefaultConfig()
	dec := runServer(t, SuggestRequest{ID: "7", Query: "n", Limit: cfg.Server.MaxLimit + 100})

	resp := decodeSuggest(t, dec)
	if resp.Count > cfg.Server.MaxLimit {
		t.Errorf("limit not capped: %d results", resp.Count)
	}
}

func TestServerDefaultLimit(t *testing.T) {
	dec := runServer(t, SuggestRequest{ID: "8", Query: "londo"})

	resp := decodeSuggest(t, dec)
	if resp.Count > config.DefaultConfig().Server.MaxResults {
		t.Errorf("expected at most the configured default, got %d", resp.Count)
	}
}

func TestServerFuzzy(t *testing.T) {
	dec := runServer(t, SuggestRequest{ID: "9", Query: "Lundon", Fuzzy: true})

	resp := decodeSuggest(t, dec)
	if resp.Status != 200 {
		t.Fatalf("expected status 200, got %+v", resp)
	}
	if !resp.WasCorrected || resp.CorrectedQuery != "london" {
		t.Errorf("expected correction to 'london', got %+v", resp)
	}
	if len(resp.Suggestions) == 0 || resp.Suggestions[0].Name != "London" {
		t.Errorf("expected London suggestions, got %+v", resp.Suggestions)
	}
}

func TestServerHealth(t *testing.T) {
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	if err := enc.Encode(SuggestRequest{ID: "10", Cmd: "health"}); err != nil {
		t.Fatalf("encoding request: %v", err)
	}

	var out bytes.Buffer
	srv := NewServerWithIO(testSuggester(t), config.DefaultConfig(), &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("server returned error: %v", err)
	}

	dec := msgpack.NewDecoder(&out)
	for _, want := range []string{"ready", "ok"} {
		var msg map[string]string
		if err := dec.Decode(&msg); err != nil {
			t.Fatalf("decoding message: %v", err)
		}
		if msg["status"] != want {
			t.Errorf("expected status %q, got %v", want, msg)
		}
	}
}

func TestServerUnknownCommand(t *testing.T) {
	dec := runServer(t, SuggestRequest{ID: "11", Cmd: "reload"})

	resp := decodeError(t, dec)
	if resp.Code != 400 {
		t.Errorf("expected code 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Error, "reload") {
		t.Errorf("unexpected error message: %q", resp.Error)
	}
}

func TestServerMultipleRequests(t *testing.T) {
	dec := runServer(t,
		SuggestRequest{ID: "a", Query: "Montreal"},
		SuggestRequest{ID: "b", Query: "NYC"},
	)

	first := decodeSuggest(t, dec)
	if first.ID != "a" || first.Status != 200 || first.Suggestions[0].Name != "Montréal" {
		t.Errorf("unexpected first response: %+v", first)
	}
	second := decodeSuggest(t, dec)
	if second.ID != "b" || second.Status != 200 || second.Suggestions[0].Name != "New York" {
		t.Errorf("unexpected second response: %+v", second)
	}
}
