package validator

import (
	"fmt"
	"strings"

	"github.com/epokowo/epokowo-service/internal/models"
)

// GapPlaceholder marks one blank inside fill_blank text.
const GapPlaceholder = "[___]"

// QuestionValidator guards the editor boundary: question content is validated
// here, once, so the grading layer can trust its shape. Graders themselves
// never validate.
type QuestionValidator struct{}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates a complete question record, decoding its content
// by kind.
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if strings.TrimSpace(question.Prompt) == "" {
		return fmt.Errorf("question prompt is required")
	}

	content, err := question.DecodeContent()
	if err != nil {
		return err
	}
	return v.ValidateContent(question.Kind, content)
}

// ValidateContent validates decoded content against its kind's invariants.
func (v *QuestionValidator) ValidateContent(kind models.QuestionKind, content any) error {
	switch kind {
	case models.KindAbcd:
		c, ok := content.(*models.AbcdContent)
		if !ok {
			return fmt.Errorf("content is not abcd content")
		}
		return v.validateAbcd(c)
	case models.KindFillBlank:
		c, ok := content.(*models.FillBlankContent)
		if !ok {
			return fmt.Errorf("content is not fill_blank content")
		}
		return v.validateFillBlank(c)
	case models.KindMatching:
		c, ok := content.(*models.MatchingContent)
		if !ok {
			return fmt.Errorf("content is not matching content")
		}
		return v.validateMatching(c)
	case models.KindTableGap:
		c, ok := content.(*models.TableGapContent)
		if !ok {
			return fmt.Errorf("content is not table_gap content")
		}
		return v.validateTableGap(c)
	case models.KindOrdering:
		c, ok := content.(*models.OrderingContent)
		if !ok {
			return fmt.Errorf("content is not ordering content")
		}
		return v.validateOrdering(c)
	default:
		return fmt.Errorf("unsupported question kind: %s", kind)
	}
}

func (v *QuestionValidator) validateAbcd(c *models.AbcdContent) error {
	if len(c.Options) < 2 {
		return fmt.Errorf("must have at least 2 options")
	}
	if len(c.Options) > 8 {
		return fmt.Errorf("cannot have more than 8 options")
	}

	correct := 0
	for i, option := range c.Options {
		if strings.TrimSpace(option.Text) == "" {
			return fmt.Errorf("option %d text cannot be empty", i+1)
		}
		if option.Correct {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("exactly one option must be correct, got %d", correct)
	}
	return nil
}

func (v *QuestionValidator) validateFillBlank(c *models.FillBlankContent) error {
	if strings.TrimSpace(c.TextWithGaps) == "" {
		return fmt.Errorf("text with gaps is required")
	}

	gaps := strings.Count(c.TextWithGaps, GapPlaceholder)
	if gaps == 0 {
		return fmt.Errorf("text must contain at least one %s placeholder", GapPlaceholder)
	}
	if gaps != len(c.Answers) {
		return fmt.Errorf("text has %d gaps but %d answers", gaps, len(c.Answers))
	}
	for i, answer := range c.Answers {
		if strings.TrimSpace(answer) == "" {
			return fmt.Errorf("answer %d cannot be empty", i+1)
		}
	}
	return nil
}

func (v *QuestionValidator) validateMatching(c *models.MatchingContent) error {
	if len(c.Pairs) < 2 {
		return fmt.Errorf("must have at least 2 pairs")
	}
	for i, pair := range c.Pairs {
		if strings.TrimSpace(pair.Left) == "" || strings.TrimSpace(pair.Right) == "" {
			return fmt.Errorf("pair %d must have both sides filled", i+1)
		}
	}
	return nil
}

func (v *QuestionValidator) validateTableGap(c *models.TableGapContent) error {
	if len(c.Headers) == 0 {
		return fmt.Errorf("headers are required")
	}
	if len(c.Rows) == 0 {
		return fmt.Errorf("must have at least one row")
	}
	for i, row := range c.Rows {
		if len(row) != len(c.Headers) {
			return fmt.Errorf("row %d has %d cells but table has %d columns", i+1, len(row), len(c.Headers))
		}
	}

	if len(c.AnswerKey) == 0 {
		return fmt.Errorf("must have at least one gap in the answer key")
	}
	seen := make(map[[2]int]bool, len(c.AnswerKey))
	for i, gap := range c.AnswerKey {
		if gap.Row < 0 || gap.Row >= len(c.Rows) || gap.Col < 0 || gap.Col >= len(c.Headers) {
			return fmt.Errorf("answer key entry %d points outside the table", i+1)
		}
		// The display grid must actually be blanked where the key claims
		// a gap; otherwise learners would see the answer.
		if c.Rows[gap.Row][gap.Col] != "" {
			return fmt.Errorf("answer key entry %d points at a non-blank cell", i+1)
		}
		if strings.TrimSpace(gap.Value) == "" {
			return fmt.Errorf("answer key entry %d has an empty value", i+1)
		}
		cell := [2]int{gap.Row, gap.Col}
		if seen[cell] {
			return fmt.Errorf("answer key has duplicate entry for cell (%d,%d)", gap.Row, gap.Col)
		}
		seen[cell] = true
	}
	return nil
}

func (v *QuestionValidator) validateOrdering(c *models.OrderingContent) error {
	if len(c.Items) < 2 {
		return fmt.Errorf("must have at least 2 items")
	}
	seen := make(map[string]bool, len(c.Items))
	for i, item := range c.Items {
		if strings.TrimSpace(item) == "" {
			return fmt.Errorf("item %d cannot be empty", i+1)
		}
		// Duplicate items would make the correct order ambiguous under
		// exact sequence comparison.
		if seen[item] {
			return fmt.Errorf("item %q appears more than once", item)
		}
		seen[item] = true
	}
	return nil
}
