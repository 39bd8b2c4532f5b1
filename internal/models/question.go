package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionKind string

const (
	KindAbcd      QuestionKind = "abcd"
	KindFillBlank QuestionKind = "fill_blank"
	KindMatching  QuestionKind = "matching"
	KindTableGap  QuestionKind = "table_gap"
	KindOrdering  QuestionKind = "ordering"
)

// AllQuestionKinds is the closed set of supported kinds, in display order.
var AllQuestionKinds = []QuestionKind{
	KindAbcd,
	KindFillBlank,
	KindMatching,
	KindTableGap,
	KindOrdering,
}

// Question is a tagged variant: Kind selects the shape of Content. Content is
// stored verbatim as jsonb and decoded at the content-source boundary; the
// grading layer only ever sees the decoded per-kind structs.
type Question struct {
	ID       uint           `json:"id" gorm:"primaryKey"`
	LessonID uint           `json:"lesson_id" gorm:"not null;index"`
	Kind     QuestionKind   `json:"kind" gorm:"not null;size:20" validate:"required,question_kind"`
	Prompt   string         `json:"prompt" gorm:"type:text;not null" validate:"required"`
	Position int            `json:"position" gorm:"not null;index"`
	Content  datatypes.JSON `json:"content" gorm:"type:jsonb"`

	CreatedBy string         `json:"created_by" gorm:"size:255;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Question) TableName() string {
	return "questions"
}

// Per-kind content payloads.

type AbcdOption struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

type AbcdContent struct {
	Options []AbcdOption `json:"options"`
}

// FillBlankContent holds a text with [___] placeholders and one expected
// answer per gap, in reading order.
type FillBlankContent struct {
	TextWithGaps string   `json:"text_with_gaps"`
	Answers      []string `json:"answers"`
}

type MatchPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type MatchingContent struct {
	Pairs []MatchPair `json:"pairs"`
}

// GapAnswer is the ground truth for one blanked cell. The display grid keeps
// "" at gap positions; the truth lives only here, so blanking a cell in the
// editor must record its previous value into the key.
type GapAnswer struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Value string `json:"value"`
}

type TableGapContent struct {
	Headers   []string    `json:"headers"`
	Rows      [][]string  `json:"rows"`
	AnswerKey []GapAnswer `json:"answer_key"`
}

// OrderingContent lists the items in their correct order; presentation
// shuffles a copy.
type OrderingContent struct {
	Items []string `json:"items"`
}

// DecodeContent unmarshals the jsonb payload into the kind-matched struct.
// Callers own validation of the decoded shape; this only rejects JSON that
// does not parse or an unknown kind.
func (q *Question) DecodeContent() (any, error) {
	switch q.Kind {
	case KindAbcd:
		var c AbcdContent
		if err := json.Unmarshal(q.Content, &c); err != nil {
			return nil, fmt.Errorf("question %d: invalid abcd content: %w", q.ID, err)
		}
		return &c, nil
	case KindFillBlank:
		var c FillBlankContent
		if err := json.Unmarshal(q.Content, &c); err != nil {
			return nil, fmt.Errorf("question %d: invalid fill_blank content: %w", q.ID, err)
		}
		return &c, nil
	case KindMatching:
		var c MatchingContent
		if err := json.Unmarshal(q.Content, &c); err != nil {
			return nil, fmt.Errorf("question %d: invalid matching content: %w", q.ID, err)
		}
		return &c, nil
	case KindTableGap:
		var c TableGapContent
		if err := json.Unmarshal(q.Content, &c); err != nil {
			return nil, fmt.Errorf("question %d: invalid table_gap content: %w", q.ID, err)
		}
		return &c, nil
	case KindOrdering:
		var c OrderingContent
		if err := json.Unmarshal(q.Content, &c); err != nil {
			return nil, fmt.Errorf("question %d: invalid ordering content: %w", q.ID, err)
		}
		return &c, nil
	default:
		return nil, fmt.Errorf("question %d: unsupported kind %q", q.ID, q.Kind)
	}
}

// EncodeContent marshals a per-kind content struct back into the jsonb column.
func (q *Question) EncodeContent(content any) error {
	raw, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("question %d: encode content: %w", q.ID, err)
	}
	q.Content = raw
	return nil
}
