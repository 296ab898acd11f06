package service

import "errors"

// 领域错误，全部可恢复；handler 统一映射为 HTTP 状态码
var (
	ErrUnauthenticated              = errors.New("unauthenticated")
	ErrPermissionDenied             = errors.New("permission denied")
	ErrNotFound                     = errors.New("not found")
	ErrInvalidStageTransition       = errors.New("invalid stage transition")
	ErrInvalidApplicationTransition = errors.New("invalid application transition")
	ErrDeadlinePassed               = errors.New("rsvp deadline passed")
	ErrJobInactive                  = errors.New("job inactive")
	ErrDuplicateApplication         = errors.New("duplicate application")
	ErrDuplicateReview              = errors.New("duplicate review")
	ErrAlreadyModerated             = errors.New("already moderated")
	ErrCapacityExceeded             = errors.New("capacity exceeded")
	ErrConflict                     = errors.New("concurrent update, retry")
)
