package views

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"machipower_client/metrics"
	"machipower_client/models"
	"machipower_client/services"
)

// MatchState is a renderable snapshot of the match page. Each section is
// filled by exactly one remote fetch and fails independently: a directory
// error never clears the invite lists, and vice versa.
type MatchState struct {
	ContestID string

	Directory    map[string]models.UserProfile
	DirectoryErr error

	RecommendationStatus string
	Recommendations      []models.Recommendation
	RecommendationErr    error

	SentInvites []string
	SentErr     error

	ReceivedInvites []models.Invite
	ReceivedErr     error

	PreferenceSaved bool

	// Sending tracks in-flight invite sends per target user, so one
	// outstanding invite leaves unrelated invite actions enabled.
	Sending map[string]bool
}

// MatchView coordinates the contest-selection-driven fetches of the match
// page: directory, recommendations, and sent/received invites. Every fetch
// started by a selection carries that selection's fetch token; results
// arriving for a superseded token are discarded, which is how a late response
// for the previous contest is kept from overwriting the new one.
type MatchView struct {
	Identity  Identity
	Directory *services.DirectoryService
	Prefs     *services.PreferenceService
	Recs      *services.RecommendationService
	Invites   *services.InviteService
	Metrics   *metrics.Metrics

	mu         sync.Mutex
	fetchToken string
	state      MatchState
	wg         sync.WaitGroup
}

// NewMatchView wires a MatchView to its services.
func NewMatchView(identity Identity, directory *services.DirectoryService, prefs *services.PreferenceService, recs *services.RecommendationService, invites *services.InviteService, m *metrics.Metrics) *MatchView {
	return &MatchView{
		Identity:  identity,
		Directory: directory,
		Prefs:     prefs,
		Recs:      recs,
		Invites:   invites,
		Metrics:   m,
		state:     MatchState{Sending: make(map[string]bool)},
	}
}

// Select switches the active contest and re-runs every dependent fetch.
// Selecting the empty value clears dependent state instead of reusing stale
// results. Fetches still in flight for the previous selection keep running,
// but their results are dropped on arrival.
func (v *MatchView) Select(ctx context.Context, contestID string) error {
	userID, err := v.Identity.SubjectID()
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.fetchToken = uuid.NewString()
	token := v.fetchToken
	v.state = MatchState{ContestID: contestID, Sending: make(map[string]bool)}
	v.mu.Unlock()

	if contestID == "" {
		return nil
	}

	v.wg.Add(3)
	go func() {
		defer v.wg.Done()
		v.loadDirectory(ctx, token)
	}()
	go func() {
		defer v.wg.Done()
		v.loadRecommendations(ctx, token, userID, contestID)
	}()
	go func() {
		defer v.wg.Done()
		v.loadInviteStatus(ctx, token, userID, contestID)
	}()
	return nil
}

// Wait blocks until every fetch dispatched so far has finished. Discarded
// stale fetches count as finished.
func (v *MatchView) Wait() {
	v.wg.Wait()
}

func (v *MatchView) loadDirectory(ctx context.Context, token string) {
	profiles, err := v.Directory.LoadAll(ctx)
	v.apply(token, func(s *MatchState) {
		if err != nil {
			log.Printf("Failed to load user directory: %v", err)
			s.DirectoryErr = err
			return
		}
		s.Directory = profiles
		s.DirectoryErr = nil
	})
}

func (v *MatchView) loadRecommendations(ctx context.Context, token, userID, contestID string) {
	result, err := v.Recs.Fetch(ctx, userID, contestID)
	v.apply(token, func(s *MatchState) {
		if err != nil {
			log.Printf("Failed to load recommendations: %v", err)
			s.RecommendationErr = err
			return
		}
		s.RecommendationErr = nil
		s.RecommendationStatus = result.Status
		s.Recommendations = result.Recommendations
	})
}

func (v *MatchView) loadInviteStatus(ctx context.Context, token, userID, contestID string) {
	status := v.Invites.FetchStatus(ctx, userID, contestID)
	v.apply(token, func(s *MatchState) {
		if status.SentErr != nil {
			log.Printf("Failed to load sent invites: %v", status.SentErr)
			s.SentErr = status.SentErr
		} else {
			s.SentInvites = status.Sent
			s.SentErr = nil
		}
		if status.ReceivedErr != nil {
			log.Printf("Failed to load received invites: %v", status.ReceivedErr)
			s.ReceivedErr = status.ReceivedErr
		} else {
			s.ReceivedInvites = status.Received
			s.ReceivedErr = nil
		}
	})
}

// apply runs mutate under the view lock only if token still matches the
// active selection; late results for a superseded selection are counted and
// dropped.
func (v *MatchView) apply(token string, mutate func(*MatchState)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if token != v.fetchToken {
		v.Metrics.CountStaleResponse()
		return
	}
	mutate(&v.state)
}

// SubmitPreferences saves the desired-skill set for the selected contest and
// then refreshes recommendations. The two outcomes are independent: a failed
// refresh is reported through the recommendation section, never by rolling
// back the saved preference.
func (v *MatchView) SubmitPreferences(ctx context.Context, desiredSkills []string) error {
	v.mu.Lock()
	contestID := v.state.ContestID
	token := v.fetchToken
	v.mu.Unlock()

	if contestID == "" {
		return &services.ValidationError{Field: "contestId", Message: "select a contest first"}
	}
	userID, err := v.Identity.SubjectID()
	if err != nil {
		return err
	}

	if err := v.Prefs.Submit(ctx, contestID, desiredSkills); err != nil {
		return err
	}
	v.apply(token, func(s *MatchState) { s.PreferenceSaved = true })

	v.loadRecommendations(ctx, token, userID, contestID)
	return nil
}

// RefreshRecommendations re-fetches recommendations for the current selection
// on explicit user action.
func (v *MatchView) RefreshRecommendations(ctx context.Context) error {
	v.mu.Lock()
	contestID := v.state.ContestID
	token := v.fetchToken
	v.mu.Unlock()

	if contestID == "" {
		return &services.ValidationError{Field: "contestId", Message: "select a contest first"}
	}
	userID, err := v.Identity.SubjectID()
	if err != nil {
		return err
	}
	v.loadRecommendations(ctx, token, userID, contestID)
	return nil
}

// SendInvite sends an invitation to toID for the selected contest. The busy
// flag is scoped to the target, and a failed send clears it so the action is
// immediately retryable.
func (v *MatchView) SendInvite(ctx context.Context, toID string) error {
	fromID, err := v.Identity.SubjectID()
	if err != nil {
		return err
	}

	v.mu.Lock()
	contestID := v.state.ContestID
	token := v.fetchToken
	if contestID == "" {
		v.mu.Unlock()
		return &services.ValidationError{Field: "contestId", Message: "select a contest first"}
	}
	if v.state.Sending[toID] {
		v.mu.Unlock()
		return nil
	}
	v.state.Sending[toID] = true
	v.mu.Unlock()

	err = v.Invites.Send(ctx, fromID, toID, contestID)

	v.apply(token, func(s *MatchState) {
		delete(s.Sending, toID)
		if err == nil {
			s.SentInvites = v.Invites.SentList(contestID)
		}
	})
	return err
}

// TargetState reports the invite affordance for one candidate: invited,
// sending, or not invited.
func (v *MatchView) TargetState(toID string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state.Sending[toID] {
		return models.InviteStateSending
	}
	for _, id := range v.state.SentInvites {
		if id == toID {
			return models.InviteStateInvited
		}
	}
	return models.InviteStateNotInvited
}

// Guidance returns the user-facing text for the current recommendation
// section. The empty-result statuses get guidance, not an error message.
func (v *MatchView) Guidance() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state.RecommendationErr != nil {
		return "Couldn't load recommendations. Please try again."
	}
	switch v.state.RecommendationStatus {
	case models.RecommendationStatusNoMatch:
		return "No matching recommendations yet. Try adjusting your desired skills."
	case models.RecommendationStatusFallback:
		return "Not enough close matches. Showing the nearest candidates instead."
	default:
		return ""
	}
}

// Snapshot returns a copy of the current state for rendering.
func (v *MatchView) Snapshot() MatchState {
	v.mu.Lock()
	defer v.mu.Unlock()
	snapshot := v.state
	snapshot.Sending = make(map[string]bool, len(v.state.Sending))
	for id, busy := range v.state.Sending {
		snapshot.Sending[id] = busy
	}
	return snapshot
}
