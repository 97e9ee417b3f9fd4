package participants

import "errors"

var ErrUnknownParticipant = errors.New("unknown participant")
var ErrDuplicateParticipant = errors.New("duplicate participant")
var ErrEmptyParticipantID = errors.New("empty participant id")
