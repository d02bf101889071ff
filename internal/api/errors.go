package api

import (
	"golang.org/x/xerrors"
)

var (
	ErrNotImplemented = xerrors.New("not implemented")
	ErrNotAllowed     = xerrors.New("not allowed")
)
