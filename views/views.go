// Package views holds the per-contest coordination state the MachiPower UI
// renders from. Each view merges the independently fetched, eventually
// consistent collections behind one mutex, the single-writer analog of the
// browser's event loop: fetches run concurrently, state mutation does not.
package views

// Identity supplies the signed-in subject for bearer-scoped fetches.
// services.SessionService satisfies it.
type Identity interface {
	SubjectID() (string, error)
}
