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

// InviteRow is one rendered invite line. Nickname falls back to the raw user
// id when the directory has no profile for it, so invite lists stay readable
// even when the directory fetch failed.
type InviteRow struct {
	UserID   string
	Nickname string
	Major    string
	Skills   []string
}

// InvitesState is a renderable snapshot of the invite-overview page.
type InvitesState struct {
	ContestID string

	Options    []models.Contest
	OptionsErr error

	DirectoryErr error

	Sent    []InviteRow
	SentErr error

	Received    []InviteRow
	ReceivedErr error
}

// InvitesView backs the invite-overview page: a contest dropdown driving
// concurrent sent/received fetches, resolved through the directory. It uses
// the same fetch-token discipline as MatchView so switching contests mid-load
// never renders the previous contest's invites.
type InvitesView struct {
	Identity  Identity
	Contests  *services.ContestService
	Directory *services.DirectoryService
	Invites   *services.InviteService
	Metrics   *metrics.Metrics

	mu         sync.Mutex
	fetchToken string
	state      InvitesState
	wg         sync.WaitGroup
}

// NewInvitesView wires an InvitesView to its services.
func NewInvitesView(identity Identity, contests *services.ContestService, directory *services.DirectoryService, invites *services.InviteService, m *metrics.Metrics) *InvitesView {
	return &InvitesView{
		Identity:  identity,
		Contests:  contests,
		Directory: directory,
		Invites:   invites,
		Metrics:   m,
	}
}

// Init loads the contest options and the user directory concurrently. Either
// load may fail without blocking the other: missing options leave the
// dropdown empty, a missing directory degrades rows to raw ids.
func (iv *InvitesView) Init(ctx context.Context) {
	iv.wg.Add(2)
	go func() {
		defer iv.wg.Done()
		options, err := iv.Contests.LoadContests(ctx)
		iv.mu.Lock()
		defer iv.mu.Unlock()
		if err != nil {
			log.Printf("Failed to load contest options: %v", err)
			iv.state.OptionsErr = err
			return
		}
		iv.state.Options = options
		iv.state.OptionsErr = nil
	}()
	go func() {
		defer iv.wg.Done()
		_, err := iv.Directory.LoadAll(ctx)
		iv.mu.Lock()
		defer iv.mu.Unlock()
		if err != nil {
			log.Printf("Failed to load user directory: %v", err)
			iv.state.DirectoryErr = err
			return
		}
		iv.state.DirectoryErr = nil
	}()
}

// Select switches the contest whose invites are shown. The empty selection
// clears both lists.
func (iv *InvitesView) Select(ctx context.Context, contestID string) error {
	userID, err := iv.Identity.SubjectID()
	if err != nil {
		return err
	}

	iv.mu.Lock()
	iv.fetchToken = uuid.NewString()
	token := iv.fetchToken
	iv.state.ContestID = contestID
	iv.state.Sent = nil
	iv.state.SentErr = nil
	iv.state.Received = nil
	iv.state.ReceivedErr = nil
	iv.mu.Unlock()

	if contestID == "" {
		return nil
	}

	iv.wg.Add(1)
	go func() {
		defer iv.wg.Done()
		status := iv.Invites.FetchStatus(ctx, userID, contestID)

		iv.mu.Lock()
		defer iv.mu.Unlock()
		if token != iv.fetchToken {
			iv.Metrics.CountStaleResponse()
			return
		}
		if status.SentErr != nil {
			log.Printf("Failed to load sent invites: %v", status.SentErr)
			iv.state.SentErr = status.SentErr
		} else {
			iv.state.Sent = iv.rowsFor(status.Sent)
		}
		if status.ReceivedErr != nil {
			log.Printf("Failed to load received invites: %v", status.ReceivedErr)
			iv.state.ReceivedErr = status.ReceivedErr
		} else {
			senders := make([]string, 0, len(status.Received))
			for _, invite := range status.Received {
				senders = append(senders, invite.FromID)
			}
			iv.state.Received = iv.rowsFor(senders)
		}
	}()
	return nil
}

// Wait blocks until every fetch dispatched so far has finished.
func (iv *InvitesView) Wait() {
	iv.wg.Wait()
}

func (iv *InvitesView) rowsFor(userIDs []string) []InviteRow {
	rows := make([]InviteRow, 0, len(userIDs))
	for _, id := range userIDs {
		profile := iv.Directory.Lookup(id)
		rows = append(rows, InviteRow{
			UserID:   id,
			Nickname: profile.DisplayName(),
			Major:    profile.Major,
			Skills:   profile.Skills,
		})
	}
	return rows
}

// Snapshot returns a copy of the current state for rendering.
func (iv *InvitesView) Snapshot() InvitesState {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	return iv.state
}
