package validator

import (
	"testing"

	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateAbcdContent(t *testing.T) {
	v := NewQuestionValidator()

	valid := &models.AbcdContent{Options: []models.AbcdOption{
		{Text: "Mickiewicz", Correct: true},
		{Text: "Słowacki"},
		{Text: "Norwid"},
	}}
	assert.NoError(t, v.ValidateContent(models.KindAbcd, valid))

	t.Run("too few options", func(t *testing.T) {
		c := &models.AbcdContent{Options: []models.AbcdOption{{Text: "a", Correct: true}}}
		assert.Error(t, v.ValidateContent(models.KindAbcd, c))
	})

	t.Run("no correct option", func(t *testing.T) {
		c := &models.AbcdContent{Options: []models.AbcdOption{{Text: "a"}, {Text: "b"}}}
		assert.Error(t, v.ValidateContent(models.KindAbcd, c))
	})

	t.Run("two correct options", func(t *testing.T) {
		c := &models.AbcdContent{Options: []models.AbcdOption{
			{Text: "a", Correct: true},
			{Text: "b", Correct: true},
		}}
		assert.Error(t, v.ValidateContent(models.KindAbcd, c))
	})

	t.Run("empty option text", func(t *testing.T) {
		c := &models.AbcdContent{Options: []models.AbcdOption{
			{Text: "a", Correct: true},
			{Text: "  "},
		}}
		assert.Error(t, v.ValidateContent(models.KindAbcd, c))
	})
}

func TestValidateFillBlankContent(t *testing.T) {
	v := NewQuestionValidator()

	valid := &models.FillBlankContent{
		TextWithGaps: "Stolica Polski to [___], leży nad [___].",
		Answers:      []string{"Warszawa", "Wisłą"},
	}
	assert.NoError(t, v.ValidateContent(models.KindFillBlank, valid))

	t.Run("gap and answer count mismatch", func(t *testing.T) {
		c := &models.FillBlankContent{
			TextWithGaps: "Jedno [___] miejsce",
			Answers:      []string{"a", "b"},
		}
		assert.Error(t, v.ValidateContent(models.KindFillBlank, c))
	})

	t.Run("no placeholders", func(t *testing.T) {
		c := &models.FillBlankContent{TextWithGaps: "bez luk", Answers: nil}
		assert.Error(t, v.ValidateContent(models.KindFillBlank, c))
	})

	t.Run("empty expected answer", func(t *testing.T) {
		c := &models.FillBlankContent{TextWithGaps: "[___]", Answers: []string{" "}}
		assert.Error(t, v.ValidateContent(models.KindFillBlank, c))
	})
}

func TestValidateMatchingContent(t *testing.T) {
	v := NewQuestionValidator()

	valid := &models.MatchingContent{Pairs: []models.MatchPair{
		{Left: "Pan Tadeusz", Right: "Mickiewicz"},
		{Left: "Lalka", Right: "Prus"},
	}}
	assert.NoError(t, v.ValidateContent(models.KindMatching, valid))

	t.Run("single pair", func(t *testing.T) {
		c := &models.MatchingContent{Pairs: valid.Pairs[:1]}
		assert.Error(t, v.ValidateContent(models.KindMatching, c))
	})

	t.Run("empty side", func(t *testing.T) {
		c := &models.MatchingContent{Pairs: []models.MatchPair{
			{Left: "Pan Tadeusz", Right: "Mickiewicz"},
			{Left: "", Right: "Prus"},
		}}
		assert.Error(t, v.ValidateContent(models.KindMatching, c))
	})
}

func TestValidateTableGapContent(t *testing.T) {
	v := NewQuestionValidator()

	valid := &models.TableGapContent{
		Headers:   []string{"Autor", "Dzieło"},
		Rows:      [][]string{{"Mickiewicz", ""}},
		AnswerKey: []models.GapAnswer{{Row: 0, Col: 1, Value: "Dziady"}},
	}
	assert.NoError(t, v.ValidateContent(models.KindTableGap, valid))

	t.Run("key outside the table", func(t *testing.T) {
		c := &models.TableGapContent{
			Headers:   valid.Headers,
			Rows:      valid.Rows,
			AnswerKey: []models.GapAnswer{{Row: 3, Col: 0, Value: "x"}},
		}
		assert.Error(t, v.ValidateContent(models.KindTableGap, c))
	})

	t.Run("key over a visible cell", func(t *testing.T) {
		c := &models.TableGapContent{
			Headers:   valid.Headers,
			Rows:      valid.Rows,
			AnswerKey: []models.GapAnswer{{Row: 0, Col: 0, Value: "Mickiewicz"}},
		}
		assert.Error(t, v.ValidateContent(models.KindTableGap, c))
	})

	t.Run("ragged rows", func(t *testing.T) {
		c := &models.TableGapContent{
			Headers:   valid.Headers,
			Rows:      [][]string{{"tylko jedna"}},
			AnswerKey: valid.AnswerKey,
		}
		assert.Error(t, v.ValidateContent(models.KindTableGap, c))
	})

	t.Run("no gaps", func(t *testing.T) {
		c := &models.TableGapContent{Headers: valid.Headers, Rows: [][]string{{"a", "b"}}}
		assert.Error(t, v.ValidateContent(models.KindTableGap, c))
	})
}

func TestValidateOrderingContent(t *testing.T) {
	v := NewQuestionValidator()

	valid := &models.OrderingContent{Items: []string{"antyk", "renesans", "barok"}}
	assert.NoError(t, v.ValidateContent(models.KindOrdering, valid))

	t.Run("duplicate items", func(t *testing.T) {
		c := &models.OrderingContent{Items: []string{"antyk", "antyk"}}
		assert.Error(t, v.ValidateContent(models.KindOrdering, c))
	})

	t.Run("single item", func(t *testing.T) {
		c := &models.OrderingContent{Items: []string{"antyk"}}
		assert.Error(t, v.ValidateContent(models.KindOrdering, c))
	})
}

func TestValidateQuestion(t *testing.T) {
	v := NewQuestionValidator()

	q := &models.Question{Kind: models.KindAbcd, Prompt: "Kto napisał Dziady?"}
	err := q.EncodeContent(&models.AbcdContent{Options: []models.AbcdOption{
		{Text: "Mickiewicz", Correct: true},
		{Text: "Prus"},
	}})
	assert.NoError(t, err)
	assert.NoError(t, v.ValidateQuestion(q))

	t.Run("missing prompt", func(t *testing.T) {
		bad := *q
		bad.Prompt = "  "
		assert.Error(t, v.ValidateQuestion(&bad))
	})

	t.Run("undecodable content", func(t *testing.T) {
		bad := *q
		bad.Content = []byte("{oops")
		assert.Error(t, v.ValidateQuestion(&bad))
	})

	t.Run("unknown kind", func(t *testing.T) {
		bad := *q
		bad.Kind = "essay"
		assert.Error(t, v.ValidateQuestion(&bad))
	})
}
