package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"trello-mcp-server/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: REST API Request Validity
//
// For any Trello API request constructed by the server, it should conform to
// the Trello REST API conventions (correct HTTP method, valid endpoint path,
// proper headers, credentials as query parameters, valid JSON body).
func TestProperty14_RESTAPIRequestValidity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// Generator for well-formed 24-character hexadecimal Trello IDs
	genResourceID := gen.Int64Range(0, 1<<62).Map(func(n int64) string {
		return fmt.Sprintf("%024x", n)
	})

	// Generator for card names of bounded length
	genCardName := gen.AlphaString().
		SuchThat(func(s string) bool { return len(s) >= 1 }).
		Map(func(s string) string { return s[:min(32, len(s))] })

	// Property: Board lookups construct valid HTTP GET requests
	properties.Property("Board lookups construct valid HTTP GET request", prop.ForAll(
		func(boardID string) bool {
			// Create a test server to capture the request
			var capturedReq *http.Request
			var capturedBody []byte
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedReq = r
				capturedBody, _ = io.ReadAll(r.Body)
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(domain.Board{ID: boardID, Name: "Sprint Board"})
			}))
			defer server.Close()

			// Create client and make request
			client, _ := newTestClient(server)
			_, err := client.Get(context.Background(), "/boards/"+boardID, nil)
			if err != nil {
				return false
			}

			// Verify request properties
			if capturedReq == nil {
				return false
			}

			// 1. Correct HTTP method
			if capturedReq.Method != "GET" {
				return false
			}

			// 2. Valid endpoint path
			if capturedReq.URL.Path != "/boards/"+boardID {
				return false
			}

			// 3. Proper headers (no Content-Type without a body)
			if capturedReq.Header.Get("Accept") != "application/json" {
				return false
			}
			if capturedReq.Header.Get("Content-Type") != "" {
				return false
			}

			// 4. Credentials travel as query parameters
			query := capturedReq.URL.Query()
			if query.Get("key") != "test-key" || query.Get("token") != "test-token" {
				return false
			}

			// 5. No body for GET request
			return len(capturedBody) == 0
		},
		genResourceID,
	))

	// Property: Card creation constructs valid HTTP POST requests with JSON bodies
	properties.Property("Card creation constructs valid HTTP POST request", prop.ForAll(
		func(listID string, name string, desc string) bool {
			// Create a test server to capture the request
			var capturedReq *http.Request
			var capturedBody []byte
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedReq = r
				capturedBody, _ = io.ReadAll(r.Body)
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(domain.Card{ID: "607f1f77bcf86cd799439022", Name: name, IDList: listID})
			}))
			defer server.Close()

			// Create client and make request
			client, _ := newTestClient(server)
			body := map[string]interface{}{
				"name": name,
				"desc": desc,
			}
			_, err := client.Post(context.Background(), "/cards", url.Values{"idList": {listID}}, body)
			if err != nil {
				return false
			}

			// Verify request properties
			if capturedReq == nil {
				return false
			}

			// 1. Correct HTTP method
			if capturedReq.Method != "POST" {
				return false
			}

			// 2. Valid endpoint path
			if capturedReq.URL.Path != "/cards" {
				return false
			}

			// 3. Proper headers
			if capturedReq.Header.Get("Content-Type") != "application/json" {
				return false
			}
			if capturedReq.Header.Get("Accept") != "application/json" {
				return false
			}

			// 4. Valid JSON body with the caller's fields preserved
			if len(capturedBody) == 0 {
				return false
			}
			var bodyMap map[string]interface{}
			if err := json.Unmarshal(capturedBody, &bodyMap); err != nil {
				return false
			}
			if bodyMap["name"] != name || bodyMap["desc"] != desc {
				return false
			}

			// 5. Caller query parameters and credentials coexist
			query := capturedReq.URL.Query()
			if query.Get("idList") != listID {
				return false
			}
			return query.Get("key") == "test-key" && query.Get("token") == "test-token"
		},
		genResourceID,
		genCardName,
		gen.AlphaString(),
	))

	// Property: Card updates construct valid HTTP PUT requests
	properties.Property("Card updates construct valid HTTP PUT request", prop.ForAll(
		func(cardID string, name string) bool {
			// Create a test server to capture the request
			var capturedReq *http.Request
			var capturedBody []byte
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedReq = r
				capturedBody, _ = io.ReadAll(r.Body)
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(domain.Card{ID: cardID, Name: name})
			}))
			defer server.Close()

			// Create client and make request
			client, _ := newTestClient(server)
			_, err := client.Put(context.Background(), "/cards/"+cardID, nil, map[string]interface{}{"name": name})
			if err != nil {
				return false
			}

			// Verify request properties
			if capturedReq == nil {
				return false
			}

			// 1. Correct HTTP method
			if capturedReq.Method != "PUT" {
				return false
			}

			// 2. Valid endpoint path
			if capturedReq.URL.Path != "/cards/"+cardID {
				return false
			}

			// 3. Proper headers
			if capturedReq.Header.Get("Content-Type") != "application/json" {
				return false
			}
			if capturedReq.Header.Get("Accept") != "application/json" {
				return false
			}

			// 4. Valid JSON body
			if len(capturedBody) == 0 {
				return false
			}
			var bodyMap map[string]interface{}
			if err := json.Unmarshal(capturedBody, &bodyMap); err != nil {
				return false
			}
			return bodyMap["name"] == name
		},
		genResourceID,
		genCardName,
	))

	// Property: Card deletion constructs valid HTTP DELETE requests
	properties.Property("Card deletion constructs valid HTTP DELETE request", prop.ForAll(
		func(cardID string) bool {
			// Create a test server to capture the request
			var capturedReq *http.Request
			var capturedBody []byte
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedReq = r
				capturedBody, _ = io.ReadAll(r.Body)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			// Create client and make request
			client, _ := newTestClient(server)
			_, err := client.Delete(context.Background(), "/cards/"+cardID, nil)
			if err != nil {
				return false
			}

			// Verify request properties
			if capturedReq == nil {
				return false
			}

			// 1. Correct HTTP method
			if capturedReq.Method != "DELETE" {
				return false
			}

			// 2. Valid endpoint path
			if capturedReq.URL.Path != "/cards/"+cardID {
				return false
			}

			// 3. Proper headers
			if capturedReq.Header.Get("Accept") != "application/json" {
				return false
			}

			// 4. Credentials travel as query parameters
			query := capturedReq.URL.Query()
			if query.Get("key") != "test-key" || query.Get("token") != "test-token" {
				return false
			}

			// 5. No body for DELETE request
			return len(capturedBody) == 0
		},
		genResourceID,
	))

	// Property: Caller query parameters survive alongside credentials
	properties.Property("Caller query parameters survive alongside credentials", prop.ForAll(
		func(searchQuery string, cardsLimit int) bool {
			if searchQuery == "" {
				return true
			}
			if cardsLimit < 1 {
				cardsLimit = 10
			}

			// Create a test server to capture the request
			var capturedReq *http.Request
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedReq = r
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(domain.SearchResults{})
			}))
			defer server.Close()

			// Create client and make request
			client, _ := newTestClient(server)
			params := url.Values{}
			params.Set("query", searchQuery)
			params.Set("cards_limit", fmt.Sprintf("%d", cardsLimit))
			params.Set("modelTypes", "cards,boards")
			_, err := client.Get(context.Background(), "/search", params)
			if err != nil {
				return false
			}

			// Verify request properties
			if capturedReq == nil {
				return false
			}

			query := capturedReq.URL.Query()

			// 1. Every caller parameter is preserved
			if query.Get("query") != searchQuery {
				return false
			}
			if query.Get("cards_limit") != fmt.Sprintf("%d", cardsLimit) {
				return false
			}
			if query.Get("modelTypes") != "cards,boards" {
				return false
			}

			// 2. Credentials are attached on top of the caller parameters
			return query.Get("key") == "test-key" && query.Get("token") == "test-token"
		},
		gen.AlphaString(),
		gen.IntRange(1, 1000),
	))

	// Property: Configured credentials override caller-supplied pairs
	properties.Property("Configured credentials override caller-supplied pairs", prop.ForAll(
		func(boardID string, rogueKey string, rogueToken string) bool {
			// Create a test server to capture the request
			var capturedReq *http.Request
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedReq = r
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(domain.Board{ID: boardID})
			}))
			defer server.Close()

			// Create client and make a request that tries to smuggle its own pair
			client, _ := newTestClient(server)
			params := url.Values{}
			params.Set("key", rogueKey)
			params.Set("token", rogueToken)
			_, err := client.Get(context.Background(), "/boards/"+boardID, params)
			if err != nil {
				return false
			}

			if capturedReq == nil {
				return false
			}

			// The configured pair always wins
			query := capturedReq.URL.Query()
			if query.Get("key") != "test-key" || query.Get("token") != "test-token" {
				return false
			}

			// And exactly one value per credential parameter reaches the wire
			return len(query["key"]) == 1 && len(query["token"]) == 1
		},
		genResourceID,
		gen.Identifier(),
		gen.Identifier(),
	))

	// Property: Service-layer board lookups target the board resource path
	properties.Property("Service-layer board lookups target the board resource path", prop.ForAll(
		func(boardID string) bool {
			// Create a test server to capture the request
			var capturedReq *http.Request
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedReq = r
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(domain.Board{ID: boardID, Name: "Roadmap"})
			}))
			defer server.Close()

			// Resolve the board through the service layer
			services := newTestServices(server)
			board, err := services.Boards.GetBoard(context.Background(), boardID)
			if err != nil {
				return false
			}
			if board.ID != boardID {
				return false
			}

			// Verify request properties
			if capturedReq == nil {
				return false
			}

			// 1. Correct HTTP method
			if capturedReq.Method != "GET" {
				return false
			}

			// 2. Valid endpoint path
			return capturedReq.URL.Path == "/boards/"+boardID
		},
		genResourceID,
	))

	// Property: All POST/PUT request bodies survive a JSON round trip
	properties.Property("All POST/PUT request bodies survive a JSON round trip", prop.ForAll(
		func(name string, desc string, pos int) bool {
			if name == "" {
				name = "Test"
			}
			if pos < 0 {
				pos = 0
			}

			// Create a test server to capture the request
			var capturedBody []byte
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedBody, _ = io.ReadAll(r.Body)
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(domain.Card{ID: "607f1f77bcf86cd799439022", Name: name})
			}))
			defer server.Close()

			// Create client and make request with a nested body
			client, _ := newTestClient(server)
			body := map[string]interface{}{
				"name": name,
				"desc": desc,
				"pos":  pos,
				"labels": []string{
					"5e6a8b2c9d1f3a4b5c6d7e8f",
				},
			}
			_, err := client.Post(context.Background(), "/cards", nil, body)
			if err != nil {
				return false
			}

			// Verify body is valid JSON
			if len(capturedBody) == 0 {
				return false
			}

			var bodyMap map[string]interface{}
			if err := json.Unmarshal(capturedBody, &bodyMap); err != nil {
				return false
			}

			// Verify the JSON can be re-serialized (round-trip test)
			reserializedBody, err := json.Marshal(bodyMap)
			if err != nil {
				return false
			}

			// Verify the re-serialized body is also valid JSON
			var checkMap map[string]interface{}
			if err := json.Unmarshal(reserializedBody, &checkMap); err != nil {
				return false
			}

			return checkMap["name"] == name && checkMap["desc"] == desc
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.IntRange(0, 100000),
	))

	properties.TestingRun(t)
}

// min returns the minimum of two integers
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
