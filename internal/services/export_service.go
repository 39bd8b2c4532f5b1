package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/epokowo/epokowo-service/internal/repositories"
	"github.com/epokowo/epokowo-service/internal/validator"
)

// ExportService handles admin file import/export: quiz results out as
// spreadsheets, single-choice questions in from spreadsheets.
type ExportService interface {
	ExportLessonResults(ctx context.Context, actor models.Actor, lessonID uint) ([]byte, error)

	// ImportQuestions reads single-choice (abcd) questions from a CSV or
	// Excel upload and appends them to the lesson's question list.
	ImportQuestions(ctx context.Context, actor models.Actor, lessonID uint, file multipart.File, filename string) (*ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, actor models.Actor, lessonID uint, reader io.Reader) (*ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, actor models.Actor, lessonID uint, reader io.Reader) (*ImportResult, error)
}

type ImportResult struct {
	TotalRows    int                `json:"total_rows"`
	SuccessCount int                `json:"success_count"`
	ErrorCount   int                `json:"error_count"`
	Errors       []ImportRowError   `json:"errors,omitempty"`
	Questions    []*models.Question `json:"questions,omitempty"`
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

type exportService struct {
	repo      repositories.Repository
	content   ContentService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewExportService(repo repositories.Repository, content ContentService, logger *slog.Logger, v *validator.Validator) ExportService {
	return &exportService{
		repo:      repo,
		content:   content,
		logger:    logger,
		validator: v,
	}
}

func (s *exportService) ExportLessonResults(ctx context.Context, actor models.Actor, lessonID uint) ([]byte, error) {
	lesson, err := s.repo.Content().GetLesson(ctx, lessonID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	results, err := s.repo.Result().ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lesson results: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Wyniki"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Student ID", "Student Name", "Email", "Best Score", "Total Questions",
		"Percentage", "Attempts", "Last Attempt",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, result := range results {
		row := []interface{}{result.UserID}

		if result.User != nil {
			row = append(row, result.User.FullName, result.User.Email)
		} else {
			row = append(row, "", "")
		}

		row = append(row, result.BestScore, result.TotalQuestions)

		percentage := 0.0
		if result.TotalQuestions > 0 {
			percentage = float64(result.BestScore) / float64(result.TotalQuestions) * 100
		}
		row = append(row, fmt.Sprintf("%.1f%%", percentage))

		row = append(row, result.Attempts, result.UpdatedAt.Format("2006-01-02 15:04:05"))

		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Lesson results exported",
		"lesson_id", lessonID,
		"lesson_title", lesson.Title,
		"rows", len(results),
		"exported_by", actor.UserID)
	return buf.Bytes(), nil
}

func (s *exportService) ImportQuestions(ctx context.Context, actor models.Actor, lessonID uint, file multipart.File, filename string) (*ImportResult, error) {
	s.logger.Info("Starting question import", "filename", filename, "lesson_id", lessonID, "imported_by", actor.UserID)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, actor, lessonID, file)
	case ".xlsx", ".xls":
		return s.ImportQuestionsFromExcel(ctx, actor, lessonID, file)
	default:
		return nil, NewValidationError("file", "unsupported file format", filename)
	}
}

func (s *exportService) ImportQuestionsFromCSV(ctx context.Context, actor models.Actor, lessonID uint, reader io.Reader) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return s.importRows(ctx, actor, lessonID, records)
}

func (s *exportService) ImportQuestionsFromExcel(ctx context.Context, actor models.Actor, lessonID uint, reader io.Reader) (*ImportResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "workbook has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook rows: %w", err)
	}
	return s.importRows(ctx, actor, lessonID, rows)
}

// importRows parses a header + data row grid into abcd questions. Expected
// columns: prompt, option_a..option_d, correct_answer (single letter A-D).
func (s *exportService) importRows(ctx context.Context, actor models.Actor, lessonID uint, rows [][]string) (*ImportResult, error) {
	if _, err := s.repo.Content().GetLesson(ctx, lessonID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	if len(rows) < 2 {
		return nil, NewValidationError("file", "file must have a header row and at least one data row", len(rows))
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range []string{"prompt", "option_a", "option_b", "correct_answer"} {
		if _, exists := headerMap[col]; !exists {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	existing, err := s.repo.Question().ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lesson questions: %w", err)
	}
	nextPosition := len(existing)

	result := &ImportResult{TotalRows: len(rows) - 1}
	var questions []*models.Question

	for rowIndex, record := range rows[1:] {
		question, rowErrors := s.parseQuestionRow(record, headerMap, rowIndex+2, lessonID, actor.UserID)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorCount++
			continue
		}
		question.Position = nextPosition + len(questions)
		questions = append(questions, question)
		result.SuccessCount++
	}

	if len(questions) > 0 {
		err := s.repo.Transaction(ctx, func(tx repositories.Repository) error {
			return tx.Question().CreateBatch(ctx, questions)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to save imported questions: %w", err)
		}
		s.content.InvalidateLesson(ctx, lessonID)
	}

	result.Questions = questions
	s.logger.Info("Question import completed",
		"lesson_id", lessonID,
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)
	return result, nil
}

func (s *exportService) parseQuestionRow(record []string, headerMap map[string]int, rowNum int, lessonID uint, creatorID string) (*models.Question, []ImportRowError) {
	var rowErrors []ImportRowError

	getColumn := func(name string) string {
		if index, exists := headerMap[name]; exists && index < len(record) {
			return strings.TrimSpace(record[index])
		}
		return ""
	}

	prompt := getColumn("prompt")
	if prompt == "" {
		rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Column: "prompt", Message: "required field"})
		return nil, rowErrors
	}

	// The letter in correct_answer names a source column, not a slot in the
	// collected list, so remember where each filled column landed.
	var options []models.AbcdOption
	optionIndex := make(map[byte]int)
	for i, col := range []string{"option_a", "option_b", "option_c", "option_d"} {
		if text := getColumn(col); text != "" {
			optionIndex['A'+byte(i)] = len(options)
			options = append(options, models.AbcdOption{Text: text})
		}
	}
	if len(options) < 2 {
		rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Column: "options", Message: "must have at least 2 options"})
		return nil, rowErrors
	}

	correct := strings.ToUpper(getColumn("correct_answer"))
	if len(correct) != 1 {
		rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Column: "correct_answer", Message: "must be a single letter naming an option"})
		return nil, rowErrors
	}
	index, filled := optionIndex[correct[0]]
	if !filled {
		rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Column: "correct_answer", Message: "must name a filled option column"})
		return nil, rowErrors
	}
	options[index].Correct = true

	content, err := json.Marshal(models.AbcdContent{Options: options})
	if err != nil {
		rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Column: "content", Message: "failed to serialize content"})
		return nil, rowErrors
	}

	question := &models.Question{
		LessonID:  lessonID,
		Kind:      models.KindAbcd,
		Prompt:    prompt,
		Content:   datatypes.JSON(content),
		CreatedBy: creatorID,
	}
	if err := s.validator.Question().ValidateQuestion(question); err != nil {
		rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Column: "content", Message: err.Error()})
		return nil, rowErrors
	}
	return question, nil
}
