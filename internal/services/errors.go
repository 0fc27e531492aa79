package services

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateIdentity = errors.New("username or email already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSuchUser         = fmt.Errorf("%w: no user found", ErrInvalidCredentials)
	ErrIncorrectPassword  = fmt.Errorf("%w: incorrect password", ErrInvalidCredentials)

	ErrUnknownUser     = errors.New("user does not exist")
	ErrUnknownParent   = errors.New("parent comment does not exist")
	ErrCommentNotFound = errors.New("comment does not exist")

	ErrForbidden        = errors.New("forbidden")
	ErrIdentityMismatch = fmt.Errorf("%w: user id does not belong to current user", ErrForbidden)
	ErrNotOwner         = fmt.Errorf("%w: not the comment owner", ErrForbidden)

	ErrInvalidToken = errors.New("invalid token")
)
