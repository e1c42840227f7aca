package repository

import "errors"

// ErrNotFound is returned when a query for a single entity finds no rows, or when an
// update or delete touched nothing. The service layer translates it into the
// application-level errors.ErrNotFound so that callers never see sql.ErrNoRows.
var ErrNotFound = errors.New("repository: not found")
