package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatchqa/internal/model"
)

func testCatalog() []model.Question {
	return []model.Question{
		{ID: "q1", OriginalQuestion: "Was the location of the incident obtained?", CallTypes: []string{"Medical"}},
		{ID: "q2", OriginalQuestion: "Was the phone number verified?", CallTypes: []string{"All"}},
		{ID: "q3", OriginalQuestion: "Was the nature of the emergency determined?", CallTypes: []string{"Fire"}},
	}
}

func medicalCall() *model.Call {
	return &model.Call{ID: "call-1", CallType: "Medical", Status: model.CallProcessed}
}

func boundStore(t *testing.T) *AnswerStore {
	t.Helper()
	s := NewAnswerStore()
	s.Bind(medicalCall(), testCatalog(), map[string]model.AnswerValue{
		"q1": model.AnswerYes,
		"q2": model.AnswerNo,
	})
	return s
}

func TestBindInitializesDraftEqualToCommitted(t *testing.T) {
	s := boundStore(t)

	assert.Equal(t, StateViewing, s.State())
	assert.Equal(t, s.Committed(), s.Draft())
	assert.False(t, s.Dirty())
}

func TestBindFiltersCatalogByCallType(t *testing.T) {
	s := boundStore(t)

	qs := s.Questions()
	require.Len(t, qs, 2)
	assert.Equal(t, "q1", qs[0].ID)
	assert.Equal(t, "q2", qs[1].ID)
}

func TestBindAppliesDefaultForMissingSavedAnswer(t *testing.T) {
	s := NewAnswerStore()
	s.Bind(medicalCall(), testCatalog(), nil)

	v, err := s.Answer("q2")
	require.NoError(t, err)
	assert.Equal(t, DefaultAnswer, v)
}

func TestBindIgnoresInvalidSavedAnswer(t *testing.T) {
	s := NewAnswerStore()
	s.Bind(medicalCall(), testCatalog(), map[string]model.AnswerValue{
		"q1": model.AnswerValue("maybe"),
	})

	v, err := s.Answer("q1")
	require.NoError(t, err)
	assert.Equal(t, DefaultAnswer, v)
}

func TestEditsOnlyTouchDraftUntilSave(t *testing.T) {
	s := boundStore(t)
	require.NoError(t, s.BeginEdit())

	require.NoError(t, s.SetDraftAnswer("q2", model.AnswerYes))

	assert.Equal(t, model.AnswerNo, s.Committed()["q2"])
	assert.Equal(t, model.AnswerYes, s.Draft()["q2"])
	assert.True(t, s.Dirty())
}

func TestSaveCommitsWholeDraftAndReturnsToViewing(t *testing.T) {
	s := boundStore(t)
	require.NoError(t, s.BeginEdit())
	require.NoError(t, s.SetDraftAnswer("q1", model.AnswerRefused))
	require.NoError(t, s.SetDraftAnswer("q2", model.AnswerYes))

	require.NoError(t, s.Save())

	assert.Equal(t, StateViewing, s.State())
	// all-or-nothing: both edits land together
	assert.Equal(t, model.AnswerRefused, s.Committed()["q1"])
	assert.Equal(t, model.AnswerYes, s.Committed()["q2"])
	assert.Equal(t, s.Committed(), s.Draft())
}

func TestResetRestoresDraftAndStaysEditing(t *testing.T) {
	s := boundStore(t)
	require.NoError(t, s.BeginEdit())
	require.NoError(t, s.SetDraftAnswer("q2", model.AnswerYes))

	require.NoError(t, s.Reset())

	assert.Equal(t, StateEditing, s.State())
	assert.Equal(t, s.Committed(), s.Draft())

	// idempotent: a second reset changes nothing
	require.NoError(t, s.Reset())
	assert.Equal(t, StateEditing, s.State())
	assert.Equal(t, s.Committed(), s.Draft())
}

func TestEndEditLeavesDraftDiscardedOnNextBeginEdit(t *testing.T) {
	s := boundStore(t)
	require.NoError(t, s.BeginEdit())
	require.NoError(t, s.SetDraftAnswer("q2", model.AnswerYes))

	require.NoError(t, s.EndEdit())
	assert.Equal(t, StateViewing, s.State())
	// committed untouched by the abandoned session
	assert.Equal(t, model.AnswerNo, s.Committed()["q2"])

	// next session re-snapshots from committed
	require.NoError(t, s.BeginEdit())
	assert.Equal(t, model.AnswerNo, s.Draft()["q2"])
}

func TestSetDraftAnswerRejectedWhileViewing(t *testing.T) {
	s := boundStore(t)

	err := s.SetDraftAnswer("q1", model.AnswerYes)
	assert.ErrorIs(t, err, ErrNotEditing)
	assert.Equal(t, model.AnswerYes, s.Committed()["q1"])
}

func TestSetDraftAnswerInvalidValueLeavesDraftUnchanged(t *testing.T) {
	s := boundStore(t)
	require.NoError(t, s.BeginEdit())

	err := s.SetDraftAnswer("q1", model.AnswerValue("kinda"))
	assert.ErrorIs(t, err, ErrInvalidAnswerValue)
	assert.Equal(t, model.AnswerYes, s.Draft()["q1"])
}

func TestSetDraftAnswerUnknownQuestion(t *testing.T) {
	s := boundStore(t)
	require.NoError(t, s.BeginEdit())

	// q3 exists in the catalog but is not applicable to a Medical call
	err := s.SetDraftAnswer("q3", model.AnswerYes)
	assert.ErrorIs(t, err, ErrUnknownQuestion)

	err = s.SetDraftAnswer("nope", model.AnswerYes)
	assert.ErrorIs(t, err, ErrUnknownQuestion)
}

func TestBeginEditTwiceFails(t *testing.T) {
	s := boundStore(t)
	require.NoError(t, s.BeginEdit())

	assert.ErrorIs(t, s.BeginEdit(), ErrAlreadyEditing)
	assert.Equal(t, StateEditing, s.State())
}

func TestSaveAndResetRequireEditing(t *testing.T) {
	s := boundStore(t)

	assert.ErrorIs(t, s.Save(), ErrNotEditing)
	assert.ErrorIs(t, s.Reset(), ErrNotEditing)
	assert.ErrorIs(t, s.EndEdit(), ErrNotEditing)
}

func TestUnboundStoreRejectsEverything(t *testing.T) {
	s := NewAnswerStore()

	assert.ErrorIs(t, s.BeginEdit(), ErrNotBound)
	assert.ErrorIs(t, s.SetDraftAnswer("q1", model.AnswerYes), ErrNotBound)
	assert.ErrorIs(t, s.Save(), ErrNotBound)
	assert.ErrorIs(t, s.Reset(), ErrNotBound)

	_, err := s.Answer("q1")
	assert.ErrorIs(t, err, ErrNotBound)
}

func TestAnswerTracksStateNotJustStore(t *testing.T) {
	s := boundStore(t)

	v, err := s.Answer("q2")
	require.NoError(t, err)
	assert.Equal(t, model.AnswerNo, v)

	require.NoError(t, s.BeginEdit())
	require.NoError(t, s.SetDraftAnswer("q2", model.AnswerYes))

	// while editing the draft is the displayed value
	v, err = s.Answer("q2")
	require.NoError(t, err)
	assert.Equal(t, model.AnswerYes, v)

	require.NoError(t, s.EndEdit())

	// back in viewing, committed is authoritative again
	v, err = s.Answer("q2")
	require.NoError(t, err)
	assert.Equal(t, model.AnswerNo, v)
}

func TestRebindFullyReplacesPriorState(t *testing.T) {
	s := boundStore(t)
	require.NoError(t, s.BeginEdit())
	require.NoError(t, s.SetDraftAnswer("q2", model.AnswerYes))

	fire := &model.Call{ID: "call-2", CallType: "Fire"}
	s.Bind(fire, testCatalog(), map[string]model.AnswerValue{"q3": model.AnswerYes})

	assert.Equal(t, StateViewing, s.State())
	assert.Equal(t, "call-2", s.CallID())

	qs := s.Questions()
	require.Len(t, qs, 2) // q2 (All) and q3 (Fire)
	assert.Equal(t, "q2", qs[0].ID)
	assert.Equal(t, "q3", qs[1].ID)
	assert.Equal(t, DefaultAnswer, s.Committed()["q2"]) // no merge from the old call
	assert.Equal(t, model.AnswerYes, s.Committed()["q3"])
}

// Concrete walk-through from the review workflow: three questions, saved
// answers {yes, no, na}; edit q2 to yes, save, verify; then the same edit
// followed by reset instead.
func TestReviewScenarioSaveAndReset(t *testing.T) {
	catalog := []model.Question{
		{ID: "Q1", CallTypes: []string{"Medical"}},
		{ID: "Q2", CallTypes: []string{"Medical"}},
		{ID: "Q3", CallTypes: []string{"Medical"}},
	}
	saved := map[string]model.AnswerValue{
		"Q1": model.AnswerYes,
		"Q2": model.AnswerNo,
		"Q3": model.AnswerNotApplicable,
	}

	s := NewAnswerStore()
	s.Bind(medicalCall(), catalog, saved)
	require.Equal(t, s.Committed(), s.Draft())

	require.NoError(t, s.BeginEdit())
	require.NoError(t, s.SetDraftAnswer("Q2", model.AnswerYes))
	assert.Equal(t, model.AnswerNo, s.Committed()["Q2"])
	assert.Equal(t, model.AnswerYes, s.Draft()["Q2"])

	require.NoError(t, s.Save())
	assert.Equal(t, model.AnswerYes, s.Committed()["Q2"])
	assert.Equal(t, StateViewing, s.State())

	// same edit, reset instead of save
	require.NoError(t, s.BeginEdit())
	require.NoError(t, s.SetDraftAnswer("Q2", model.AnswerNo))
	require.NoError(t, s.Reset())
	assert.Equal(t, StateEditing, s.State())
	assert.Equal(t, map[string]model.AnswerValue{
		"Q1": model.AnswerYes,
		"Q2": model.AnswerYes,
		"Q3": model.AnswerNotApplicable,
	}, s.Draft())
}

func TestApplicableQuestionsPreservesCatalogOrder(t *testing.T) {
	catalog := []model.Question{
		{ID: "a", CallTypes: []string{"Medical"}},
		{ID: "b", CallTypes: []string{"All"}},
		{ID: "c", CallTypes: []string{"Fire"}},
	}

	got := ApplicableQuestions("Medical", catalog)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)

	// pure and restartable: a second invocation returns the same result
	again := ApplicableQuestions("Medical", catalog)
	assert.Equal(t, got, again)
}
