package automation

import "errors"

var ErrRuleFailed = errors.New("automation rule failed")
