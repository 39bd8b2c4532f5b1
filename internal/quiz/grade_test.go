package quiz

import (
	"testing"

	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Dziady", "dziady"},
		{"surrounding whitespace", "  Kraków \t", "kraków"},
		{"already normalized", "lalka", "lalka"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"polish diacritics preserved", " BŁOGOSŁAWIONY ", "błogosławiony"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestGradeAbcd(t *testing.T) {
	options := []models.AbcdOption{
		{Text: "Adam Mickiewicz"},
		{Text: "Juliusz Słowacki", Correct: true},
		{Text: "Cyprian Norwid"},
		{Text: "Zygmunt Krasiński"},
	}

	t.Run("correct option index", func(t *testing.T) {
		assert.True(t, GradeAbcd(options, 1))
	})

	t.Run("wrong option index", func(t *testing.T) {
		assert.False(t, GradeAbcd(options, 0))
		assert.False(t, GradeAbcd(options, 3))
	})

	t.Run("index out of range", func(t *testing.T) {
		assert.False(t, GradeAbcd(options, -1))
		assert.False(t, GradeAbcd(options, 4))
	})

	t.Run("no correct option grades false for every index", func(t *testing.T) {
		broken := []models.AbcdOption{{Text: "a"}, {Text: "b"}}
		for i := range broken {
			assert.False(t, GradeAbcd(broken, i))
		}
	})
}

func TestGradeFillBlank(t *testing.T) {
	answers := []string{"Kraków", "Wisła"}

	t.Run("exact match", func(t *testing.T) {
		assert.True(t, GradeFillBlank(answers, []string{"Kraków", "Wisła"}))
	})

	t.Run("case and whitespace invariant", func(t *testing.T) {
		assert.True(t, GradeFillBlank(answers, []string{" kraków ", "WISŁA"}))
	})

	t.Run("one wrong gap fails the question", func(t *testing.T) {
		assert.False(t, GradeFillBlank(answers, []string{"Kraków", "Odra"}))
	})

	t.Run("missing entries count as empty", func(t *testing.T) {
		assert.False(t, GradeFillBlank(answers, []string{"Kraków"}))
		assert.False(t, GradeFillBlank(answers, nil))
	})

	t.Run("empty expected set is vacuously correct", func(t *testing.T) {
		assert.True(t, GradeFillBlank(nil, nil))
	})
}

func TestGradeMatching(t *testing.T) {
	pairs := []models.MatchPair{
		{Left: "Pan Tadeusz", Right: "Mickiewicz"},
		{Left: "Kordian", Right: "Słowacki"},
		{Left: "Nie-Boska komedia", Right: "Krasiński"},
	}
	// Presentation order as the learner would see it.
	shuffled := []string{"Słowacki", "Krasiński", "Mickiewicz"}

	t.Run("all matched by value", func(t *testing.T) {
		assert.True(t, GradeMatching(pairs, shuffled, map[int]int{0: 2, 1: 0, 2: 1}))
	})

	t.Run("one mismatch fails", func(t *testing.T) {
		assert.False(t, GradeMatching(pairs, shuffled, map[int]int{0: 0, 1: 2, 2: 1}))
	})

	t.Run("missing selection fails", func(t *testing.T) {
		assert.False(t, GradeMatching(pairs, shuffled, map[int]int{0: 2, 1: 0}))
	})

	t.Run("slot out of range fails", func(t *testing.T) {
		assert.False(t, GradeMatching(pairs, shuffled, map[int]int{0: 2, 1: 0, 2: 5}))
	})

	t.Run("duplicate right values are interchangeable", func(t *testing.T) {
		dup := []models.MatchPair{
			{Left: "Dziady cz. III", Right: "Mickiewicz"},
			{Left: "Grażyna", Right: "Mickiewicz"},
		}
		order := []string{"Mickiewicz", "Mickiewicz"}
		// Either slot satisfies either left item: equality is by value.
		assert.True(t, GradeMatching(dup, order, map[int]int{0: 1, 1: 0}))
		assert.True(t, GradeMatching(dup, order, map[int]int{0: 0, 1: 1}))
	})
}

func TestGradeTableGap(t *testing.T) {
	content := &models.TableGapContent{
		Headers: []string{"Autor", "Dzieło"},
		Rows: [][]string{
			{"Mickiewicz", ""},
			{"", "Lalka"},
		},
		AnswerKey: []models.GapAnswer{
			{Row: 0, Col: 1, Value: "Dziady"},
			{Row: 1, Col: 0, Value: "Prus"},
		},
	}

	t.Run("normalized entries grade correct", func(t *testing.T) {
		assert.True(t, GradeTableGap(content, [][]string{
			{"Mickiewicz", "dziady"},
			{"Prus ", "Lalka"},
		}))
	})

	t.Run("trailing space is ignored", func(t *testing.T) {
		assert.True(t, GradeTableGap(content, [][]string{
			{"Mickiewicz", "Dziady "},
			{"prus", "Lalka"},
		}))
	})

	t.Run("wrong value fails", func(t *testing.T) {
		assert.False(t, GradeTableGap(content, [][]string{
			{"Mickiewicz", "dziady2"},
			{"Prus", "Lalka"},
		}))
	})

	t.Run("grid too small counts as empty input", func(t *testing.T) {
		assert.False(t, GradeTableGap(content, [][]string{{"Mickiewicz", "Dziady"}}))
		assert.False(t, GradeTableGap(content, nil))
	})

	t.Run("empty answer key is vacuously correct", func(t *testing.T) {
		empty := &models.TableGapContent{Headers: content.Headers, Rows: content.Rows}
		assert.True(t, GradeTableGap(empty, nil))
	})
}

func TestGradeOrdering(t *testing.T) {
	epochs := []string{"antyk", "średniowiecze", "renesans", "barok"}

	t.Run("exact order", func(t *testing.T) {
		assert.True(t, GradeOrdering(epochs, []string{"antyk", "średniowiecze", "renesans", "barok"}))
	})

	t.Run("adjacent transposition fails", func(t *testing.T) {
		assert.False(t, GradeOrdering(epochs, []string{"antyk", "renesans", "średniowiecze", "barok"}))
	})

	t.Run("length mismatch fails", func(t *testing.T) {
		assert.False(t, GradeOrdering(epochs, epochs[:3]))
		assert.False(t, GradeOrdering(epochs, nil))
	})
}
