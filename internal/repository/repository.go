package repository

import "errors"

// ErrNotFound is returned by all repositories when a row does not exist.
// Services translate it into the pipeline error taxonomy; repositories
// themselves stay ignorant of HTTP semantics.
var ErrNotFound = errors.New("not found")
