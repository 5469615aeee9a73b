package breakrule

import "errors"

var (
	ErrRuleNotFound = errors.New("no break rule configured for this employee")
)
