package evaluation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatchqa/internal/model"
)

type fakePersister struct {
	calls  int
	callID string
	last   map[string]model.AnswerValue
	err    error
}

func (p *fakePersister) SaveAnswers(_ context.Context, callID string, answers map[string]model.AnswerValue) error {
	p.calls++
	p.callID = callID
	p.last = answers
	return p.err
}

func boundController(t *testing.T, p Persister) *Controller {
	t.Helper()
	c := NewController(p)
	c.BindCall(medicalCall(), testCatalog(), map[string]model.AnswerValue{
		"q1": model.AnswerYes,
		"q2": model.AnswerNo,
	})
	return c
}

func TestStaleBindIsRejected(t *testing.T) {
	c := NewController(nil)

	tokenA := c.SelectCall()
	tokenB := c.SelectCall()

	callB := &model.Call{ID: "call-B", CallType: "Fire"}
	require.NoError(t, c.ApplyBind(tokenB, callB, testCatalog(), nil))

	// the slow fetch for call A resolves after B was selected
	callA := &model.Call{ID: "call-A", CallType: "Medical"}
	err := c.ApplyBind(tokenA, callA, testCatalog(), map[string]model.AnswerValue{"q1": model.AnswerYes})
	assert.ErrorIs(t, err, ErrStaleBind)

	// call B's store is untouched by the stale result
	assert.Equal(t, "call-B", c.Store().CallID())
	assert.Equal(t, "call-B", c.Call().ID)
	_, unknownErr := c.Store().Answer("q1")
	assert.ErrorIs(t, unknownErr, ErrUnknownQuestion)
}

func TestSelectCallDiscardsUnsavedEdits(t *testing.T) {
	c := boundController(t, nil)
	require.NoError(t, c.Store().BeginEdit())
	require.NoError(t, c.Store().SetDraftAnswer("q2", model.AnswerYes))

	c.BindCall(&model.Call{ID: "call-2", CallType: "Medical"}, testCatalog(), nil)

	assert.Equal(t, StateViewing, c.Store().State())
	assert.Equal(t, DefaultAnswer, c.Store().Committed()["q2"])
}

func TestComplianceSummaryCountsCommittedOnly(t *testing.T) {
	c := boundController(t, nil)

	assert.Equal(t, model.ComplianceSummary{Met: 1, Total: 2}, c.ComplianceSummary())

	// in-progress edits must not move the summary
	require.NoError(t, c.Store().BeginEdit())
	require.NoError(t, c.Store().SetDraftAnswer("q2", model.AnswerYes))
	assert.Equal(t, model.ComplianceSummary{Met: 1, Total: 2}, c.ComplianceSummary())

	require.NoError(t, c.Save(context.Background()))
	assert.Equal(t, model.ComplianceSummary{Met: 2, Total: 2}, c.ComplianceSummary())
}

// Scenario from the review workflow: {Q1: yes, Q2: no->yes saved, Q3: na}
// reports met 2 of 3; na is not counted as met.
func TestComplianceSummaryScenario(t *testing.T) {
	catalog := []model.Question{
		{ID: "Q1", CallTypes: []string{"All"}},
		{ID: "Q2", CallTypes: []string{"All"}},
		{ID: "Q3", CallTypes: []string{"All"}},
	}
	c := NewController(nil)
	c.BindCall(medicalCall(), catalog, map[string]model.AnswerValue{
		"Q1": model.AnswerYes,
		"Q2": model.AnswerNo,
		"Q3": model.AnswerNotApplicable,
	})

	require.NoError(t, c.Store().BeginEdit())
	require.NoError(t, c.Store().SetDraftAnswer("Q2", model.AnswerYes))
	require.NoError(t, c.Save(context.Background()))

	assert.Equal(t, model.ComplianceSummary{Met: 2, Total: 3}, c.ComplianceSummary())
}

func TestComplianceSummaryUnbound(t *testing.T) {
	c := NewController(nil)
	assert.Equal(t, model.ComplianceSummary{}, c.ComplianceSummary())
}

func TestSavePersistsCommittedMap(t *testing.T) {
	p := &fakePersister{}
	c := boundController(t, p)

	require.NoError(t, c.Store().BeginEdit())
	require.NoError(t, c.Store().SetDraftAnswer("q2", model.AnswerYes))
	require.NoError(t, c.Save(context.Background()))

	assert.Equal(t, 1, p.calls)
	assert.Equal(t, "call-1", p.callID)
	assert.Equal(t, map[string]model.AnswerValue{
		"q1": model.AnswerYes,
		"q2": model.AnswerYes,
	}, p.last)
}

func TestSaveIsOptimisticOnPersistFailure(t *testing.T) {
	p := &fakePersister{err: errors.New("backend down")}
	c := boundController(t, p)

	require.NoError(t, c.Store().BeginEdit())
	require.NoError(t, c.Store().SetDraftAnswer("q2", model.AnswerYes))

	err := c.Save(context.Background())
	assert.ErrorIs(t, err, ErrSaveFailed)

	// local commit stands so the reviewer can retry without re-entering
	assert.Equal(t, StateViewing, c.Store().State())
	assert.Equal(t, model.AnswerYes, c.Store().Committed()["q2"])
	assert.Equal(t, c.Store().Committed(), c.Store().Draft())
}

func TestSaveOutsideEditSessionDoesNotPersist(t *testing.T) {
	p := &fakePersister{}
	c := boundController(t, p)

	assert.ErrorIs(t, c.Save(context.Background()), ErrNotEditing)
	assert.Equal(t, 0, p.calls)
}
