package services

import (
	"context"
	"sort"
	"sync"

	"machipower_client/metrics"
	"machipower_client/models"
)

// InviteService sends invitations and reconciles the local optimistic
// sent-set with the server-confirmed sent and received lists. The sent-set is
// keyed per contest; reconciliation is always a set union, so an optimistic
// entry is never lost when the server fetch lags behind a send.
type InviteService struct {
	API     *APIClient
	Metrics *metrics.Metrics

	mu   sync.Mutex
	sent map[string]map[string]bool
}

// NewInviteService creates an InviteService with an empty sent-set.
func NewInviteService(api *APIClient, m *metrics.Metrics) *InviteService {
	return &InviteService{
		API:     api,
		Metrics: m,
		sent:    make(map[string]map[string]bool),
	}
}

// HasSent reports whether toID is already in the sent-set for the contest.
func (is *InviteService) HasSent(contestID, toID string) bool {
	is.mu.Lock()
	defer is.mu.Unlock()
	return is.sent[contestID][toID]
}

// Send sends an invitation from fromID to toID for contestID. The
// already-invited guard runs before any network call so a duplicate send
// never reaches the wire; on success the target joins the local sent-set
// immediately, ahead of any re-fetch. A failed send leaves the target
// uninvited and the action retryable.
func (is *InviteService) Send(ctx context.Context, fromID, toID, contestID string) error {
	if toID == "" || contestID == "" {
		return &ValidationError{Field: "toId", Message: "target user and contest are required"}
	}

	if is.HasSent(contestID, toID) {
		is.Metrics.CountInviteBlocked()
		return ErrAlreadyInvited
	}

	payload := map[string]string{
		"fromId":    fromID,
		"toId":      toID,
		"contestId": contestID,
	}
	if err := is.API.PostJSON(ctx, "sent-invite", "/sent-invite", true, payload, nil); err != nil {
		return err
	}

	is.markSent(contestID, toID)
	is.Metrics.CountInviteSent()
	return nil
}

func (is *InviteService) markSent(contestID string, toIDs ...string) {
	is.mu.Lock()
	defer is.mu.Unlock()
	set := is.sent[contestID]
	if set == nil {
		set = make(map[string]bool)
		is.sent[contestID] = set
	}
	for _, id := range toIDs {
		if id != "" {
			set[id] = true
		}
	}
}

// SentList returns the reconciled sent-set for a contest, sorted for stable
// rendering.
func (is *InviteService) SentList(contestID string) []string {
	is.mu.Lock()
	defer is.mu.Unlock()
	ids := make([]string, 0, len(is.sent[contestID]))
	for id := range is.sent[contestID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// InviteStatusResult carries the outcome of the two concurrent invite-list
// fetches. Each list succeeds or fails on its own; a failure in one never
// blocks the other from updating its portion of state.
type InviteStatusResult struct {
	Sent        []string
	SentErr     error
	Received    []models.Invite
	ReceivedErr error
}

// FetchStatus fetches the server-confirmed sent and received invite lists for
// (userID, contestID). The two requests are issued concurrently and no
// ordering between them is guaranteed or required. A successful sent fetch is
// unioned into the local sent-set, never substituted for it.
func (is *InviteService) FetchStatus(ctx context.Context, userID, contestID string) InviteStatusResult {
	payload := map[string]string{
		"userId":    userID,
		"contestId": contestID,
	}

	var result InviteStatusResult
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var out struct {
			Sent []string `json:"sent"`
		}
		if err := is.API.PostJSON(ctx, "sent-invites-record", "/sent_invites_record", true, payload, &out); err != nil {
			result.SentErr = err
			return
		}
		result.Sent = out.Sent
	}()

	go func() {
		defer wg.Done()
		var out struct {
			Received []models.Invite `json:"received"`
		}
		if err := is.API.PostJSON(ctx, "received-invites", "/received-invites", true, payload, &out); err != nil {
			result.ReceivedErr = err
			return
		}
		result.Received = out.Received
	}()

	wg.Wait()

	if result.SentErr == nil {
		is.markSent(contestID, result.Sent...)
		result.Sent = is.SentList(contestID)
	}
	return result
}
