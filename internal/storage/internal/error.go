package internal

import "golang.org/x/xerrors"

var (
	ErrRequestCanceled = xerrors.New("request canceled")
	ErrItemNotFound    = xerrors.New("item not found")

	// ErrSourceFetch wraps read failures against the archive tables.
	ErrSourceFetch = xerrors.New("source fetch failed")
	// ErrSinkWrite wraps write failures against the fact tables. It aborts the batch.
	ErrSinkWrite = xerrors.New("sink write failed")
)
