package validation

// TaskValidator provides validation for task and project management.
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// ValidateTitle validates a task or project title.
func (tv *TaskValidator) ValidateTitle(field, title string) error {
	validationError := NewValidationError()

	if !tv.validator.IsNonEmptyString(title) {
		validationError.AddRequiredError(field)
	} else if !tv.validator.IsValidTitleLength(title) {
		validationError.AddInvalidLengthError(field, title, 1, titleMaxLength)
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// CleanTitle trims whitespace from a title.
func (tv *TaskValidator) CleanTitle(title string) string {
	return tv.validator.TrimAndValidateString(title)
}
