package class

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/pgg/classroom/core"
)

var (
	classIDTag  = "classid"
	classIDText = "{0} must be a positive number"
)

// InitValidators registers the class validation messages. core.InitValidators must run first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(classStructValidation, NewClass{}, SelectClass{})
	core.RegisterCustomTranslation(validate, translator, classIDTag, classIDText)
}

// classStructValidation reports negative ids with a dedicated message;
// zero ids are left to the `required` rule.
func classStructValidation(sl validator.StructLevel) {
	var id int
	switch cls := sl.Current().Interface().(type) {
	case NewClass:
		id = cls.ID
	case SelectClass:
		id = cls.ID
	default:
		return
	}
	if id < 0 {
		sl.ReportError(id, "id", "ID", classIDTag, "")
	}
}
