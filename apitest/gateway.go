// Package apitest provides an in-memory stand-in for the MachiPower REST
// gateway, used by the service and view tests. It serves the same routes with
// the same middleware stack (mux router behind CORS) as the deployed gateway,
// from canned fixtures that tests mutate directly.
package apitest

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"machipower_client/models"
)

// Gateway holds the fixtures the fake serves. Zero values are usable: every
// list starts empty and every endpoint succeeds.
type Gateway struct {
	mu sync.Mutex

	Contests []models.Contest

	// UsersJSON is served verbatim from /users so tests can exercise the
	// heterogeneous skill encodings the directory must normalize.
	UsersJSON json.RawMessage

	// RecommendJSON is served verbatim from /recommend, keyed by contestId.
	RecommendJSON map[string]json.RawMessage

	SentByContest     map[string][]string
	ReceivedByContest map[string][]models.Invite

	// Delays injects per-path latency, for stale-selection tests.
	Delays map[string]time.Duration

	// FailStatus forces a non-2xx status per path.
	FailStatus map[string]int

	InviteCalls     int
	PreferenceCalls int
	InterestCalls   int
	ProfileCalls    int
}

// New returns an empty Gateway.
func New() *Gateway {
	return &Gateway{
		RecommendJSON:     make(map[string]json.RawMessage),
		SentByContest:     make(map[string][]string),
		ReceivedByContest: make(map[string][]models.Invite),
		Delays:            make(map[string]time.Duration),
		FailStatus:        make(map[string]int),
	}
}

// Handler builds the HTTP handler: mux routes behind the same CORS options
// the deployed gateway uses.
func (g *Gateway) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/contests", g.handleContests).Methods("GET")
	r.HandleFunc("/users", g.requireAuth(g.handleUsers)).Methods("GET")
	r.HandleFunc("/interest", g.requireAuth(g.handleInterest)).Methods("POST")
	r.HandleFunc("/match-preference", g.requireAuth(g.handlePreference)).Methods("POST")
	r.HandleFunc("/recommend", g.requireAuth(g.handleRecommend)).Methods("POST")
	r.HandleFunc("/sent-invite", g.requireAuth(g.handleSendInvite)).Methods("POST")
	r.HandleFunc("/sent_invites_record", g.requireAuth(g.handleSentRecord)).Methods("POST")
	r.HandleFunc("/received-invites", g.requireAuth(g.handleReceived)).Methods("POST")
	r.HandleFunc("/create-profile", g.requireAuth(g.handleCreateProfile)).Methods("POST")

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(r)
}

func (g *Gateway) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// gate applies the configured delay and forced failure for a path. It returns
// false when the request was already answered with a failure status.
func (g *Gateway) gate(w http.ResponseWriter, path string) bool {
	g.mu.Lock()
	delay := g.Delays[path]
	status := g.FailStatus[path]
	g.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func decodeBody(r *http.Request, out interface{}) {
	json.NewDecoder(r.Body).Decode(out)
}

func (g *Gateway) handleContests(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, "/contests") {
		return
	}
	g.mu.Lock()
	contests := g.Contests
	g.mu.Unlock()
	if contests == nil {
		contests = []models.Contest{}
	}
	writeJSON(w, contests)
}

func (g *Gateway) handleUsers(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, "/users") {
		return
	}
	g.mu.Lock()
	users := g.UsersJSON
	g.mu.Unlock()
	if len(users) == 0 {
		users = json.RawMessage("[]")
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(users)
}

func (g *Gateway) handleInterest(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, "/interest") {
		return
	}
	g.mu.Lock()
	g.InterestCalls++
	g.mu.Unlock()
	writeJSON(w, map[string]string{"message": "interest recorded"})
}

func (g *Gateway) handlePreference(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, "/match-preference") {
		return
	}
	g.mu.Lock()
	g.PreferenceCalls++
	g.mu.Unlock()
	writeJSON(w, map[string]string{"message": "preference saved"})
}

func (g *Gateway) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, "/recommend") {
		return
	}
	var req struct {
		ContestID string `json:"contestId"`
	}
	decodeBody(r, &req)

	g.mu.Lock()
	payload := g.RecommendJSON[req.ContestID]
	g.mu.Unlock()
	if len(payload) == 0 {
		payload = json.RawMessage(`{"status":"no_match","recommendations":[]}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

func (g *Gateway) handleSendInvite(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, "/sent-invite") {
		return
	}
	var req struct {
		FromID    string `json:"fromId"`
		ToID      string `json:"toId"`
		ContestID string `json:"contestId"`
	}
	decodeBody(r, &req)

	g.mu.Lock()
	g.InviteCalls++
	g.SentByContest[req.ContestID] = append(g.SentByContest[req.ContestID], req.ToID)
	g.mu.Unlock()
	writeJSON(w, map[string]string{"message": "invite sent"})
}

func (g *Gateway) handleSentRecord(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, "/sent_invites_record") {
		return
	}
	var req struct {
		ContestID string `json:"contestId"`
	}
	decodeBody(r, &req)

	g.mu.Lock()
	sent := g.SentByContest[req.ContestID]
	g.mu.Unlock()
	if sent == nil {
		sent = []string{}
	}
	writeJSON(w, map[string]interface{}{"sent": sent})
}

func (g *Gateway) handleReceived(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, "/received-invites") {
		return
	}
	var req struct {
		ContestID string `json:"contestId"`
	}
	decodeBody(r, &req)

	g.mu.Lock()
	received := g.ReceivedByContest[req.ContestID]
	g.mu.Unlock()
	if received == nil {
		received = []models.Invite{}
	}
	writeJSON(w, map[string]interface{}{"received": received})
}

func (g *Gateway) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	if !g.gate(w, "/create-profile") {
		return
	}
	g.mu.Lock()
	g.ProfileCalls++
	g.mu.Unlock()
	writeJSON(w, map[string]string{"message": "profile saved"})
}
