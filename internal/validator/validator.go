package validator

import (
	"reflect"
	"strings"

	"github.com/epokowo/epokowo-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct-tag validation with question-content validation.
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates the centralized validator instance used across services.
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// Validate validates struct tags.
func (v *Validator) Validate(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Question returns the question-content validator.
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_kind", validateQuestionKind)
	validate.RegisterValidation("user_role", validateUserRole)

	// Report field names from json tags for better error messages.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionKind(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, kind := range models.AllQuestionKinds {
		if string(kind) == value {
			return true
		}
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	validRoles := []models.UserRole{
		models.RoleStudent,
		models.RoleAdmin,
	}

	value := fl.Field().String()
	for _, validRole := range validRoles {
		if string(validRole) == value {
			return true
		}
	}
	return false
}
