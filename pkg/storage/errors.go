package storage

import "errors"

var ErrRecipeNotFound = errors.New("recipe not found")
var ErrEmptyTitle = errors.New("empty recipe title")
var ErrCorruptedState = errors.New("corrupted replica state")
var ErrUnknownNode = errors.New("node is not a participant")
var ErrTitleTooLong = errors.New("recipe title too long")
var ErrBodyTooLarge = errors.New("recipe body too large")
var ErrNodeIDTooLong = errors.New("node id or author too long")
