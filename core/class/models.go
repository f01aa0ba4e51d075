package class

import (
	"github.com/go-playground/validator/v10"

	"github.com/pgg/classroom/core"
)

// ClassInfo is a named, numerically identified group of students.
type ClassInfo struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

// DefaultSeed is the placeholder data LoadClasses appends to an empty Registry.
func DefaultSeed() []ClassInfo {
	return []ClassInfo{
		{Name: "Steve", ID: 1},
		{Name: "Garett", ID: 2},
		{Name: "Natalie", ID: 3},
		{Name: "Henry", ID: 4},
		{Name: "Dawn", ID: 5},
	}
}

// NewClass contains information needed to add a class to the Registry.
type NewClass struct {
	Name string `json:"name" validate:"required,max=64,alphanum_"`
	ID   int    `json:"id" validate:"required"`
}

func (nc *NewClass) Validate(validate *validator.Validate, svc Service) error {
	nc.Name = core.CleanString(nc.Name)

	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.CheckUniqueness(nc.ID)
}

// SelectClass is the payload of an active class selection.
type SelectClass struct {
	ID int `json:"id" validate:"required"`
}

func (sc *SelectClass) Validate(validate *validator.Validate) error {
	return validate.Struct(sc)
}

type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search, true /* lower */)
}
