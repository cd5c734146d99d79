package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/1234-ad/auto-feedback-generator/internal/dto"
	"github.com/1234-ad/auto-feedback-generator/internal/rubric"
)

// Result reports every rule violation found in one request.
type Result struct {
	Valid  bool
	Errors []string
}

// Error carries the accumulated messages through the pipeline as a typed
// error so handlers can render them as structured details.
type Error struct {
	Errors []string
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Errors, ", ")
}

const (
	msgStudentNameMissing = "Missing required field: student_name"
	msgRubricMissing      = "Missing required field: rubric_data"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z\s\-\.']+$`)

// Validator applies the evaluation request rules. It never rejects on the
// first problem; every violation is collected so one response can report
// them all.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the custom field rules registered.
func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("notblank", notBlank); err != nil {
		return nil, fmt.Errorf("register notblank: %w", err)
	}
	if err := validate.RegisterValidation("person_name", personName); err != nil {
		return nil, fmt.Errorf("register person_name: %w", err)
	}
	return &Validator{validate: validate}, nil
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func personName(fl validator.FieldLevel) bool {
	return namePattern.MatchString(fl.Field().String())
}

// Validate runs the full rule set against the request. It is pure: the
// request is never mutated and no error is returned, only the result.
func (v *Validator) Validate(req dto.FeedbackRequest) Result {
	fieldMsg := map[string]string{}
	if err := v.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				if _, ok := fieldMsg[fe.StructField()]; !ok {
					fieldMsg[fe.StructField()] = messageFor(fe)
				}
			}
		}
	}

	errs := []string{}
	if fieldMsg["StudentName"] == msgStudentNameMissing {
		errs = append(errs, msgStudentNameMissing)
	}
	if !req.RubricData.Present() {
		errs = append(errs, msgRubricMissing)
	}
	if msg, ok := fieldMsg["StudentName"]; ok && msg != msgStudentNameMissing {
		errs = append(errs, msg)
	}
	if msg, ok := fieldMsg["AssignmentTitle"]; ok {
		errs = append(errs, msg)
	}
	errs = append(errs, rubricErrors(req.RubricData)...)
	if msg, ok := fieldMsg["FeedbackType"]; ok {
		errs = append(errs, msg)
	}
	if msg, ok := fieldMsg["Subject"]; ok {
		errs = append(errs, msg)
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

func messageFor(fe validator.FieldError) string {
	switch fe.StructField() {
	case "StudentName":
		switch fe.Tag() {
		case "required":
			return msgStudentNameMissing
		case "notblank":
			return "Student name cannot be empty"
		case "max":
			return "Student name is too long (max 100 characters)"
		default:
			return "Student name contains invalid characters"
		}
	case "AssignmentTitle":
		return "Assignment title is too long (max 200 characters)"
	case "FeedbackType":
		return "Invalid feedback type. Must be one of: constructive, encouraging, detailed, brief"
	case "Subject":
		return "Invalid subject. Must be one of: Mathematics, Science, English, History, Art, Physical Education, General"
	}
	return fe.Error()
}

func rubricErrors(r rubric.Rubric) []string {
	if !r.Present() {
		return nil
	}
	if r.Malformed {
		return []string{"Rubric data must be a dictionary"}
	}
	if len(r.Entries) == 0 {
		return []string{"Rubric data cannot be empty"}
	}

	var errs []string
	if len(r.Entries) > 20 {
		errs = append(errs, "Too many rubric criteria (max 20)")
	}

	for _, entry := range r.Entries {
		name := entry.Name
		if strings.TrimSpace(name) == "" {
			errs = append(errs, "Criterion name cannot be empty")
			continue
		}
		if utf8.RuneCountInString(name) > 50 {
			errs = append(errs, "Criterion name too long (max 50 chars): "+name)
		}

		c := entry.Criterion
		switch {
		case c.Malformed:
			errs = append(errs, "Invalid score format for criterion: "+name)
		case c.Bare:
			if c.Score < 0 {
				errs = append(errs, "Score cannot be negative for criterion: "+name)
			}
			if c.Score > 100 {
				errs = append(errs, "Score too high (max 100) for criterion: "+name)
			}
		case c.ScoreMissing:
			errs = append(errs, "Missing 'score' for criterion: "+name)
		case c.ScoreInvalid:
			errs = append(errs, "Score must be a number for criterion: "+name)
		default:
			if c.Score < 0 {
				errs = append(errs, "Score cannot be negative for criterion: "+name)
			}
			if c.MaxScoreInvalid {
				errs = append(errs, "Max score must be a number for criterion: "+name)
				continue
			}
			if c.MaxScore <= 0 {
				errs = append(errs, "Max score must be positive for criterion: "+name)
			}
			if c.Score > c.MaxScore {
				errs = append(errs, "Score cannot exceed max score for criterion: "+name)
			}
		}
	}

	return errs
}
