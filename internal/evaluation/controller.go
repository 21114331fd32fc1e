package evaluation

import (
	"context"
	"fmt"

	"dispatchqa/internal/model"
)

// Persister round-trips committed answers to the answer store backend.
// Persistence is optimistic: a failing round-trip does not roll back the
// local commit.
type Persister interface {
	SaveAnswers(ctx context.Context, callID string, answers map[string]model.AnswerValue) error
}

// BindToken identifies one call selection. Bind results carrying a
// superseded token are rejected, so a slow fetch for a previously selected
// call can never overwrite the store of the call selected after it.
type BindToken uint64

// Controller owns one AnswerStore bound to the currently selected call and
// mediates catalog filtering, compliance aggregates, and saving. Like the
// store, it is single-session: one controller per reviewer, no sharing.
type Controller struct {
	store      *AnswerStore
	persister  Persister
	generation BindToken
	call       *model.Call
}

// NewController creates a controller with an unbound store. persister may be
// nil, in which case Save commits locally only.
func NewController(persister Persister) *Controller {
	return &Controller{
		store:     NewAnswerStore(),
		persister: persister,
	}
}

// SelectCall starts a new selection and returns its token. Any bind result
// issued for an earlier token becomes stale immediately; unsaved edits on
// the previous call are discarded without confirmation once the new bind
// applies.
func (c *Controller) SelectCall() BindToken {
	c.generation++
	return c.generation
}

// ApplyBind completes a selection with the fetched call data. Results for a
// superseded token are rejected with ErrStaleBind and leave the store
// untouched.
func (c *Controller) ApplyBind(token BindToken, call *model.Call, catalog []model.Question, saved map[string]model.AnswerValue) error {
	if token != c.generation {
		return ErrStaleBind
	}
	c.call = call
	c.store.Bind(call, catalog, saved)
	return nil
}

// BindCall is the synchronous select-then-apply path used when the call data
// is already at hand.
func (c *Controller) BindCall(call *model.Call, catalog []model.Question, saved map[string]model.AnswerValue) {
	token := c.SelectCall()
	// token is necessarily current here
	_ = c.ApplyBind(token, call, catalog, saved)
}

// Store exposes the bound answer store for edit-session operations
func (c *Controller) Store() *AnswerStore {
	return c.store
}

// Call returns the currently bound call, or nil
func (c *Controller) Call() *model.Call {
	return c.call
}

// ComplianceSummary counts committed "yes" answers against the applicable
// total. Drafts never influence the summary; an in-progress edit is
// invisible outside the edit surface until saved.
func (c *Controller) ComplianceSummary() model.ComplianceSummary {
	summary := model.ComplianceSummary{Total: len(c.store.order)}
	for _, v := range c.store.committed {
		if v == model.AnswerYes {
			summary.Met++
		}
	}
	return summary
}

// Save promotes the draft to committed, then round-trips the committed map
// through the persister. The local commit stands even when persistence
// fails; the error is reported as ErrSaveFailed so the caller can retry.
func (c *Controller) Save(ctx context.Context) error {
	if err := c.store.Save(); err != nil {
		return err
	}
	if c.persister == nil {
		return nil
	}
	if err := c.persister.SaveAnswers(ctx, c.store.CallID(), c.store.Committed()); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}
