package class

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/pgg/classroom/core"
)

// searchMinSim is the minimum similarity between a search and a class name for the class to match.
const searchMinSim = .7

type (
	Service interface {
		Load() []ClassInfo
		Create(nc NewClass) (ClassInfo, error)
		// Query applies QueryFilter then the orderings, in order.
		// Classes that compare equal keep their list order.
		Query(filter QueryFilter, orderings []core.Ordering) ([]ClassInfo, error)
		GetByID(id int) (ClassInfo, error)
		Active() (ClassInfo, error)
		SetActive(id int) (ClassInfo, error)
		CheckUniqueness(id int) error
		Subscribe(fn func(Event)) (unsubscribe func())
		Snapshot() Event
	}

	service struct {
		registry *Registry
		logger   core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(registry *Registry, logger core.Logger) Service {
	return &service{
		registry: registry,
		logger:   logger,
	}
}

func (svc *service) Load() []ClassInfo {
	if svc.registry.Len() == 0 {
		svc.logger.Info("Seeding classes")
	}
	svc.registry.LoadClasses()
	return svc.registry.Classes()
}

func (svc *service) CheckUniqueness(id int) error {
	if _, ok := svc.registry.Find(id); ok {
		return core.NewValidationError(ErrIDExists, core.FieldError{Field: "id", Error: ErrIDExists.Error()})
	}
	return nil
}

func (svc *service) Create(nc NewClass) (ClassInfo, error) {
	cls := ClassInfo{Name: nc.Name, ID: nc.ID}
	if err := svc.registry.AddUnique(cls); err != nil {
		if err == ErrIDExists {
			return ClassInfo{}, core.NewValidationError(ErrIDExists, core.FieldError{Field: "id", Error: ErrIDExists.Error()})
		}
		return ClassInfo{}, errors.Wrap(err, "adding class")
	}
	svc.logger.Info("Class created", core.Fields{"id": cls.ID, "name": cls.Name})
	return cls, nil
}

func (svc *service) Query(filter QueryFilter, orderings []core.Ordering) ([]ClassInfo, error) {
	less, err := orderingLess(orderings)
	if err != nil {
		return nil, err
	}

	classes := svc.registry.Classes()
	filter.Clean()
	if !filter.IsEmpty() {
		matched := classes[:0]
		for _, cls := range classes {
			if matchesSearch(cls, filter.Search) {
				matched = append(matched, cls)
			}
		}
		classes = matched
	}

	if less != nil {
		sort.SliceStable(classes, func(i, j int) bool { return less(classes[i], classes[j]) })
	}
	return classes, nil
}

func (svc *service) GetByID(id int) (ClassInfo, error) {
	if cls, ok := svc.registry.Find(id); ok {
		return cls, nil
	}
	return ClassInfo{}, ErrNotFound
}

func (svc *service) Active() (ClassInfo, error) {
	if cls, ok := svc.registry.ActiveClass(); ok {
		return cls, nil
	}
	return ClassInfo{}, ErrNoActiveClass
}

func (svc *service) SetActive(id int) (ClassInfo, error) {
	cls, err := svc.registry.SetActiveClass(id)
	if err != nil {
		return ClassInfo{}, errors.Wrapf(err, "selecting class %d", id)
	}
	svc.logger.Debug("Active class changed", core.Fields{"id": cls.ID, "name": cls.Name})
	return cls, nil
}

func (svc *service) Subscribe(fn func(Event)) func() {
	return svc.registry.Subscribe(fn)
}

func (svc *service) Snapshot() Event {
	return svc.registry.Snapshot(EventSnapshot)
}

// matchesSearch does a case-insensitive match of search on the class name:
// either the name contains search, or both are similar enough. search must be lowered.
func matchesSearch(cls ClassInfo, search string) bool {
	name := strings.ToLower(cls.Name)
	if strings.Contains(name, search) {
		return true
	}
	ratio := difflib.NewMatcher(strings.Split(search, ""), strings.Split(name, "")).QuickRatio()
	return ratio >= searchMinSim
}

func orderingLess(orderings []core.Ordering) (func(a, b ClassInfo) bool, error) {
	if len(orderings) == 0 {
		return nil, nil
	}

	type cmpFunc func(a, b ClassInfo) int
	cmps := make([]cmpFunc, 0, len(orderings))
	for _, ord := range orderings {
		var cmp cmpFunc
		switch ord.Field {
		case "name":
			cmp = func(a, b ClassInfo) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) }
		case "id":
			cmp = func(a, b ClassInfo) int { return a.ID - b.ID }
		default:
			return nil, core.NewValidationError(nil, core.FieldError{Field: "ordering", Error: "cannot order by " + ord.Field})
		}
		if !ord.Ascending {
			asc := cmp
			cmp = func(a, b ClassInfo) int { return -asc(a, b) }
		}
		cmps = append(cmps, cmp)
	}

	return func(a, b ClassInfo) bool {
		for _, cmp := range cmps {
			if c := cmp(a, b); c != 0 {
				return c < 0
			}
		}
		return false
	}, nil
}
