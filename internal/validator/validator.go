package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/GokalpAyar/amplify-lms-client/internal/errors"
	"github.com/GokalpAyar/amplify-lms-client/internal/models"
)

// Validator is the main validator instance that combines struct-tag and
// business-rule validation for client payloads.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate performs complete validation (struct tags + business rules)
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if ve := apperrors.ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}

	if errs := validateBusinessRules(s); len(errs) > 0 {
		return errs
	}

	return nil
}

func registerCustomValidators(v *validator.Validate) {
	_ = v.RegisterValidation("question_type", validateQuestionType)
	_ = v.RegisterValidation("rating_scale", validateRatingScale)
}

func validateQuestionType(fl validator.FieldLevel) bool {
	validTypes := []models.QuestionType{
		models.QuestionShort,
		models.QuestionMultiple,
		models.QuestionOral,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func validateRatingScale(fl validator.FieldLevel) bool {
	rating := fl.Field().Int()
	return rating >= 1 && rating <= 5
}

func validateBusinessRules(s interface{}) apperrors.ValidationErrors {
	switch value := s.(type) {
	case *models.Assignment:
		return validateAssignment(value)
	case models.Assignment:
		return validateAssignment(&value)
	case *models.Question:
		return validateQuestion(value, "")
	case models.Question:
		return validateQuestion(&value, "")
	}
	return nil
}

func validateAssignment(a *models.Assignment) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors

	seen := make(map[string]bool, len(a.Questions))
	for i, q := range a.Questions {
		prefix := "questions[" + q.ID + "]"
		if seen[q.ID] {
			errs = append(errs, *apperrors.NewValidationError(prefix+".id", "must be unique within the assignment", q.ID))
		}
		seen[q.ID] = true
		errs = append(errs, validateQuestion(&a.Questions[i], prefix)...)
	}

	return errs
}

func validateQuestion(q *models.Question, prefix string) apperrors.ValidationErrors {
	if prefix == "" {
		prefix = "question"
	}
	var errs apperrors.ValidationErrors

	if strings.TrimSpace(q.Text) == "" {
		errs = append(errs, *apperrors.NewValidationError(prefix+".text", "must not be blank", q.Text))
	}

	if q.Type == models.QuestionMultiple {
		nonEmpty := 0
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) != "" {
				nonEmpty++
			}
		}
		if nonEmpty < 2 {
			errs = append(errs, *apperrors.NewValidationError(prefix+".options", "must have at least 2 non-empty options", q.Options))
		}
		if q.CorrectIx != nil && (*q.CorrectIx < 0 || *q.CorrectIx >= len(q.Options)) {
			errs = append(errs, *apperrors.NewValidationError(prefix+".correctIx", "must index an existing option", *q.CorrectIx))
		}
	}

	return errs
}
