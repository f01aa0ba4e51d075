package class

import "errors"

var (
	ErrNotFound      = errors.New("class not found")
	ErrNoActiveClass = errors.New("no active class")
	ErrIDExists      = errors.New("a class with this id already exists")
)
