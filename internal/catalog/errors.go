package catalog

import "errors"

var (
	ErrDuplicateChannelID = errors.New("duplicate channel id")
	ErrDuplicateRunnerID  = errors.New("duplicate runner id")
	ErrUnknownChannel     = errors.New("runner references unknown channel")
	ErrEmptyScript        = errors.New("runner script is empty")
	ErrNoStepFiles        = errors.New("no step files given")
)
