package quiz

import "github.com/epokowo/epokowo-service/internal/models"

// Graders are pure and total: given well-formed content they never panic and
// never error. Malformed content is the editor boundary's problem
// (validator.QuestionValidator); here an out-of-range selection or a missing
// entry simply grades incorrect, and empty collections grade vacuously true.

// GradeAbcd reports whether the selected option is the correct one.
func GradeAbcd(options []models.AbcdOption, selectedIndex int) bool {
	if selectedIndex < 0 || selectedIndex >= len(options) {
		return false
	}
	return options[selectedIndex].Correct
}

// GradeFillBlank compares one user entry per gap against the expected
// answers, normalized. Missing entries count as empty strings.
func GradeFillBlank(answers, userAnswers []string) bool {
	for i, expected := range answers {
		var got string
		if i < len(userAnswers) {
			got = userAnswers[i]
		}
		if Normalize(got) != Normalize(expected) {
			return false
		}
	}
	return true
}

// GradeMatching checks every left item against the user's chosen right-column
// slot. selections maps left index to an index into shuffledRight, which is
// the session-fixed permutation shown to the learner. Correctness is by
// right-side value, not original position, so duplicate right values are
// interchangeable.
func GradeMatching(pairs []models.MatchPair, shuffledRight []string, selections map[int]int) bool {
	for i, pair := range pairs {
		slot, ok := selections[i]
		if !ok || slot < 0 || slot >= len(shuffledRight) {
			return false
		}
		if shuffledRight[slot] != pair.Right {
			return false
		}
	}
	return true
}

// GradeTableGap checks every answer-key entry against the user's grid input,
// normalized. Key entries pointing outside the user grid count as empty
// input.
func GradeTableGap(content *models.TableGapContent, userRows [][]string) bool {
	for _, gap := range content.AnswerKey {
		var got string
		if gap.Row >= 0 && gap.Row < len(userRows) {
			row := userRows[gap.Row]
			if gap.Col >= 0 && gap.Col < len(row) {
				got = row[gap.Col]
			}
		}
		if Normalize(got) != Normalize(gap.Value) {
			return false
		}
	}
	return true
}

// GradeOrdering requires the user's arrangement to equal the correct order
// element for element.
func GradeOrdering(items, userOrder []string) bool {
	if len(userOrder) != len(items) {
		return false
	}
	for i, item := range items {
		if userOrder[i] != item {
			return false
		}
	}
	return true
}
