package employeecode

import "errors"

var (
	ErrCodeNotFound = errors.New("employee code not recognized")
	ErrCodeExists   = errors.New("an active code with this value already exists")
	ErrLabelTaken   = errors.New("an active code with this label already exists")
)
