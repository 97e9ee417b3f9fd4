package config

import "errors"

var ErrUnknownProtocol = errors.New("unknown protocol")
var ErrConfigIsNil = errors.New("config is nil")
var ErrMissingNodeID = errors.New("missing node id")
var ErrNodeIDTooLong = errors.New("node id too long")
var ErrAuthorTooLong = errors.New("author too long")
var ErrTooManyParticipants = errors.New("too many participants")
var ErrInvalidPort = errors.New("invalid port")
var ErrInvalidInterval = errors.New("gossip interval must be positive")
var ErrInvalidDelay = errors.New("gossip delay must not be negative")
var ErrInvalidFanout = errors.New("fanout must not be negative")
var ErrInvalidTimeout = errors.New("session timeout must not be negative")
var ErrMissingParticipantID = errors.New("missing participant id")
var ErrMissingAddress = errors.New("missing participant address")
var ErrDuplicateParticipant = errors.New("duplicate participant")
var ErrSelfNotParticipant = errors.New("node is not listed in participants")
var ErrInvalidPropagationDegree = errors.New("propagation degree must not be negative")
var ErrInvalidShards = errors.New("shard count must not be negative")
