package config

import (
	"fmt"

	"recipes-tsae/pkg/structs"
	"recipes-tsae/pkg/tsae"
)

func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigIsNil
	}
	if err := c.Node.Validate(); err != nil {
		return err
	}
	if err := c.Gossip.Validate(); err != nil {
		return err
	}
	if err := c.validateParticipants(); err != nil {
		return err
	}
	if err := c.Replication.Validate(); err != nil {
		return err
	}
	return nil
}

func (c *NodeConfig) Validate() error {
	if c.ID == "" {
		return ErrMissingNodeID
	}
	// идентификаторы и автор уходят в каждую метку и рецепт
	if len(c.ID) > tsae.MaxNodeIDLen {
		return fmt.Errorf("%w: %d bytes, max %d", ErrNodeIDTooLong, len(c.ID), tsae.MaxNodeIDLen)
	}
	if len(c.Author) > tsae.MaxNodeIDLen {
		return fmt.Errorf("%w: %d bytes, max %d", ErrAuthorTooLong, len(c.Author), tsae.MaxNodeIDLen)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}
	return nil
}

func (c *GossipConfig) Validate() error {

	if !knownProtocols.Contains(c.Protocol) {
		return ErrUnknownProtocol
	}

	if c.IntervalMs <= 0 {
		return ErrInvalidInterval
	}

	if c.DelayMs < 0 {
		return ErrInvalidDelay
	}

	if c.Fanout < 0 {
		return ErrInvalidFanout
	}

	if c.SessionTimeoutMs < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

func (c *Config) validateParticipants() error {
	if len(c.Participants) > tsae.MaxParticipants {
		return fmt.Errorf("%w: %d, max %d", ErrTooManyParticipants, len(c.Participants), tsae.MaxParticipants)
	}
	seen := structs.NewSet[string]()
	for _, p := range c.Participants {
		if p.ID == "" {
			return ErrMissingParticipantID
		}
		if len(p.ID) > tsae.MaxNodeIDLen {
			return fmt.Errorf("%w: participant of %d bytes", ErrNodeIDTooLong, len(p.ID))
		}
		if p.Address == "" {
			return fmt.Errorf("%w: %s", ErrMissingAddress, p.ID)
		}
		if seen.Contains(p.ID) {
			return fmt.Errorf("%w: %s", ErrDuplicateParticipant, p.ID)
		}
		seen.Add(p.ID)
	}
	if !seen.Contains(c.Node.ID) {
		return fmt.Errorf("%w: %s", ErrSelfNotParticipant, c.Node.ID)
	}
	return nil
}

func (c *ReplicationConfig) Validate() error {
	if c.PropagationDegree < 0 {
		return ErrInvalidPropagationDegree
	}
	if c.Shards < 0 {
		return ErrInvalidShards
	}
	return nil
}
