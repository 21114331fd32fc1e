package evaluation

import "dispatchqa/internal/model"

// State is the edit-session mode of an AnswerStore
type State string

const (
	StateViewing State = "viewing"
	StateEditing State = "editing"
)

// DefaultAnswer is assumed for questions with no recorded verdict yet.
// An unevaluated question is not met until a reviewer says otherwise.
const DefaultAnswer = model.AnswerNo

// AnswerStore keeps the committed/draft answer pair for every question
// applicable to one bound call. Drafts only reach committed state through
// Save, and edits are rejected outside an edit session. The store is not
// goroutine safe; each review session owns its own store (callers serialize
// access, matching the one-event-at-a-time execution model of the review UI).
type AnswerStore struct {
	state     State
	callID    string
	callType  string
	order     []string
	questions map[string]model.Question
	committed map[string]model.AnswerValue
	draft     map[string]model.AnswerValue
}

// NewAnswerStore returns an unbound store in Viewing state
func NewAnswerStore() *AnswerStore {
	return &AnswerStore{state: StateViewing}
}

// Bind targets the store at a call, fully replacing any prior state.
// Only catalog questions applicable to the call's type are bound, in catalog
// order. Both committed and draft are set to the call's saved answer, or
// DefaultAnswer where none exists.
func (s *AnswerStore) Bind(call *model.Call, catalog []model.Question, saved map[string]model.AnswerValue) {
	applicable := ApplicableQuestions(call.CallType, catalog)

	s.state = StateViewing
	s.callID = call.ID
	s.callType = call.CallType
	s.order = make([]string, 0, len(applicable))
	s.questions = make(map[string]model.Question, len(applicable))
	s.committed = make(map[string]model.AnswerValue, len(applicable))
	s.draft = make(map[string]model.AnswerValue, len(applicable))

	for _, q := range applicable {
		s.order = append(s.order, q.ID)
		s.questions[q.ID] = q

		value := DefaultAnswer
		if v, ok := saved[q.ID]; ok && v.Valid() {
			value = v
		}
		s.committed[q.ID] = value
		s.draft[q.ID] = value
	}
}

// State returns the current edit-session mode
func (s *AnswerStore) State() State {
	return s.state
}

// Bound reports whether a call has been bound
func (s *AnswerStore) Bound() bool {
	return s.callID != ""
}

// CallID returns the bound call's id, or "" when unbound
func (s *AnswerStore) CallID() string {
	return s.callID
}

// Questions returns the bound catalog subset in display order
func (s *AnswerStore) Questions() []model.Question {
	out := make([]model.Question, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.questions[id])
	}
	return out
}

// BeginEdit opens an edit session. The draft is re-snapshotted from
// committed so a draft abandoned by EndEdit never leaks into a new session.
func (s *AnswerStore) BeginEdit() error {
	if !s.Bound() {
		return ErrNotBound
	}
	if s.state == StateEditing {
		return ErrAlreadyEditing
	}
	s.draft = copyAnswers(s.committed)
	s.state = StateEditing
	return nil
}

// SetDraftAnswer records value against questionID in the draft only.
// Valid only while editing.
func (s *AnswerStore) SetDraftAnswer(questionID string, value model.AnswerValue) error {
	if !s.Bound() {
		return ErrNotBound
	}
	if s.state != StateEditing {
		return ErrNotEditing
	}
	if !value.Valid() {
		return ErrInvalidAnswerValue
	}
	if _, ok := s.draft[questionID]; !ok {
		return ErrUnknownQuestion
	}
	s.draft[questionID] = value
	return nil
}

// Save atomically promotes the entire draft to committed and returns to
// Viewing. Callers never observe a partially committed set.
func (s *AnswerStore) Save() error {
	if !s.Bound() {
		return ErrNotBound
	}
	if s.state != StateEditing {
		return ErrNotEditing
	}
	s.committed = copyAnswers(s.draft)
	s.state = StateViewing
	return nil
}

// Reset discards uncommitted edits, restoring draft == committed.
// The edit session stays open.
func (s *AnswerStore) Reset() error {
	if !s.Bound() {
		return ErrNotBound
	}
	if s.state != StateEditing {
		return ErrNotEditing
	}
	s.draft = copyAnswers(s.committed)
	return nil
}

// EndEdit closes the edit session without saving. The draft is left as-is
// and discarded by the snapshot on the next BeginEdit.
func (s *AnswerStore) EndEdit() error {
	if !s.Bound() {
		return ErrNotBound
	}
	if s.state != StateEditing {
		return ErrNotEditing
	}
	s.state = StateViewing
	return nil
}

// Answer returns the display value for a question: the draft while editing,
// the committed value otherwise.
func (s *AnswerStore) Answer(questionID string) (model.AnswerValue, error) {
	if !s.Bound() {
		return "", ErrNotBound
	}
	source := s.committed
	if s.state == StateEditing {
		source = s.draft
	}
	v, ok := source[questionID]
	if !ok {
		return "", ErrUnknownQuestion
	}
	return v, nil
}

// Committed returns a copy of the committed answer map
func (s *AnswerStore) Committed() map[string]model.AnswerValue {
	return copyAnswers(s.committed)
}

// Draft returns a copy of the draft answer map
func (s *AnswerStore) Draft() map[string]model.AnswerValue {
	return copyAnswers(s.draft)
}

// Dirty reports whether the draft diverges from committed
func (s *AnswerStore) Dirty() bool {
	for id, v := range s.draft {
		if s.committed[id] != v {
			return true
		}
	}
	return false
}

// ApplicableQuestions filters a catalog down to the entries whose tags match
// callType or the "All" wildcard, preserving catalog order. Pure function.
func ApplicableQuestions(callType string, catalog []model.Question) []model.Question {
	out := make([]model.Question, 0, len(catalog))
	for _, q := range catalog {
		if q.AppliesTo(callType) {
			out = append(out, q)
		}
	}
	return out
}

func copyAnswers(src map[string]model.AnswerValue) map[string]model.AnswerValue {
	dst := make(map[string]model.AnswerValue, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
