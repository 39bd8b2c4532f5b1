package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/epokowo/epokowo-service/internal/models"
)

var (
	ErrNoQuestions = errors.New("quiz has no questions")
	ErrNotAnswered = errors.New("current question not answered yet")
)

// Response is one user answer for the current question. The concrete type
// must match the question kind; a mismatch grades incorrect rather than
// failing, mirroring the graders' totality.
type Response interface {
	kind() models.QuestionKind
}

type AbcdResponse struct {
	SelectedIndex int `json:"selected_index"`
}

type FillBlankResponse struct {
	Answers []string `json:"answers"` // one per gap, in order
}

type MatchingResponse struct {
	// Selections maps a left-item index to the chosen slot in the shuffled
	// right column.
	Selections map[int]int `json:"selections"`
}

type TableGapResponse struct {
	Rows [][]string `json:"rows"` // full grid; only gap cells are read
}

type OrderingResponse struct {
	Order []string `json:"order"`
}

func (AbcdResponse) kind() models.QuestionKind      { return models.KindAbcd }
func (FillBlankResponse) kind() models.QuestionKind { return models.KindFillBlank }
func (MatchingResponse) kind() models.QuestionKind  { return models.KindMatching }
func (TableGapResponse) kind() models.QuestionKind  { return models.KindTableGap }
func (OrderingResponse) kind() models.QuestionKind  { return models.KindOrdering }

// Session is one attempt at one quiz by one learner: a sequential pass over
// the questions, accumulating a score. It is owned by a single caller and is
// not safe for concurrent use. Only the final (score, total) outlives it.
type Session struct {
	questions []models.Question
	contents  []any // decoded per-kind content, same order as questions

	// Presentation shuffles, fixed for the lifetime of one attempt and
	// rebuilt on Reset. Indexed by question position; nil for kinds that
	// are not shuffled.
	shuffledRight [][]string
	shuffledItems [][]string

	rng *rand.Rand

	index           int
	score           int
	answeredCurrent bool
	finished        bool
}

// NewSession decodes the question contents and deals the presentation
// shuffles. The question order is preserved as given.
func NewSession(questions []models.Question) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	s := &Session{
		questions: questions,
		contents:  make([]any, len(questions)),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for i := range questions {
		content, err := questions[i].DecodeContent()
		if err != nil {
			return nil, fmt.Errorf("decode question content: %w", err)
		}
		s.contents[i] = content
	}
	s.shuffle()
	return s, nil
}

// shuffle deals fresh presentation permutations for matching and ordering
// questions.
func (s *Session) shuffle() {
	s.shuffledRight = make([][]string, len(s.questions))
	s.shuffledItems = make([][]string, len(s.questions))

	for i, content := range s.contents {
		switch c := content.(type) {
		case *models.MatchingContent:
			right := make([]string, len(c.Pairs))
			for j, pair := range c.Pairs {
				right[j] = pair.Right
			}
			s.rng.Shuffle(len(right), func(a, b int) {
				right[a], right[b] = right[b], right[a]
			})
			s.shuffledRight[i] = right
		case *models.OrderingContent:
			items := make([]string, len(c.Items))
			copy(items, c.Items)
			s.rng.Shuffle(len(items), func(a, b int) {
				items[a], items[b] = items[b], items[a]
			})
			s.shuffledItems[i] = items
		}
	}
}

// Current returns the question under the cursor.
func (s *Session) Current() *models.Question {
	return &s.questions[s.index]
}

// CurrentContent returns the decoded content of the current question.
func (s *Session) CurrentContent() any {
	return s.contents[s.index]
}

// ShuffledRight returns the right-column presentation order for the current
// question, or nil when it is not a matching question.
func (s *Session) ShuffledRight() []string {
	return s.shuffledRight[s.index]
}

// ShuffledItems returns the item presentation order for the current question,
// or nil when it is not an ordering question.
func (s *Session) ShuffledItems() []string {
	return s.shuffledItems[s.index]
}

func (s *Session) Index() int     { return s.index }
func (s *Session) Score() int     { return s.score }
func (s *Session) Total() int     { return len(s.questions) }
func (s *Session) Finished() bool { return s.finished }
func (s *Session) Answered() bool { return s.answeredCurrent }

// Answer grades the response against the current question. The first call
// per question counts toward the score; repeated calls are ignored, so
// duplicate submission events cannot double-count. Returns whether the
// response was correct and whether it was counted.
func (s *Session) Answer(resp Response) (correct, counted bool) {
	if s.finished || s.answeredCurrent {
		return false, false
	}

	correct = s.grade(resp)
	if correct {
		s.score++
	}
	s.answeredCurrent = true
	return correct, true
}

func (s *Session) grade(resp Response) bool {
	if resp == nil || resp.kind() != s.questions[s.index].Kind {
		return false
	}

	switch c := s.contents[s.index].(type) {
	case *models.AbcdContent:
		if r, ok := resp.(AbcdResponse); ok {
			return GradeAbcd(c.Options, r.SelectedIndex)
		}
	case *models.FillBlankContent:
		if r, ok := resp.(FillBlankResponse); ok {
			return GradeFillBlank(c.Answers, r.Answers)
		}
	case *models.MatchingContent:
		if r, ok := resp.(MatchingResponse); ok {
			return GradeMatching(c.Pairs, s.shuffledRight[s.index], r.Selections)
		}
	case *models.TableGapContent:
		if r, ok := resp.(TableGapResponse); ok {
			return GradeTableGap(c, r.Rows)
		}
	case *models.OrderingContent:
		if r, ok := resp.(OrderingResponse); ok {
			return GradeOrdering(c.Items, r.Order)
		}
	}
	return false
}

// Advance moves to the next question once the current one is answered; after
// the last question it transitions to the finished state. Calls on a finished
// session are no-ops.
func (s *Session) Advance() error {
	if s.finished {
		return nil
	}
	if !s.answeredCurrent {
		return ErrNotAnswered
	}

	if s.index+1 < len(s.questions) {
		s.index++
		s.answeredCurrent = false
		return nil
	}
	s.finished = true
	return nil
}

// Result returns the final (score, total); ok is false until the session is
// finished.
func (s *Session) Result() (score, total int, ok bool) {
	if !s.finished {
		return 0, 0, false
	}
	return s.score, len(s.questions), true
}

// Reset starts the attempt over from the first question with a zero score and
// freshly dealt shuffles.
func (s *Session) Reset() {
	s.index = 0
	s.score = 0
	s.answeredCurrent = false
	s.finished = false
	s.shuffle()
}
