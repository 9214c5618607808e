package services

import "github.com/dmitrijs2005/carshowroom/internal/common"

// InputError is a rejected request with a message meant for the user. It
// matches common.ErrorValidation.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

func (e *InputError) Is(target error) bool { return target == common.ErrorValidation }

func invalid(msg string) error { return &InputError{Message: msg} }
