package config

import (
	"recipes-tsae/pkg/structs"

	"github.com/google/uuid"
)

var knownProtocols = structs.NewSet("TSAE")

var defaultNode = NodeConfig{
	ID:          "node",
	BindAddress: "127.0.0.1",
	Port:        9090,
}

var defaultGossip = GossipConfig{
	Protocol:         "TSAE",
	IntervalMs:       1000,
	DelayMs:          500,
	Fanout:           1,
	SessionTimeoutMs: 5000,
}

var defaultReplication = ReplicationConfig{
	PropagationDegree: 0,
	Shards:            64,
}

func Default() *Config {
	cfg := &Config{
		Node:        defaultNode,
		Gossip:      defaultGossip,
		Replication: defaultReplication,
	}
	cfg.populateParticipants()
	return cfg
}

func (c *NodeConfig) PopulateDefaults() {
	if c.BindAddress == "" {
		c.BindAddress = defaultNode.BindAddress
	}

	if c.Port == 0 {
		c.Port = defaultNode.Port
	}

	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	if c.Author == "" {
		c.Author = c.ID
	}
}

func (c *GossipConfig) PopulateDefaults() {
	if c.Protocol == "" {
		c.Protocol = defaultGossip.Protocol
	}

	if c.IntervalMs == 0 {
		c.IntervalMs = defaultGossip.IntervalMs
	}

	if c.DelayMs == 0 {
		c.DelayMs = defaultGossip.DelayMs
	}

	if c.Fanout == 0 {
		c.Fanout = defaultGossip.Fanout
	}

	if c.SessionTimeoutMs == 0 {
		c.SessionTimeoutMs = defaultGossip.SessionTimeoutMs
	}
}

func (c *ReplicationConfig) PopulateDefaults() {
	if c.Shards == 0 {
		c.Shards = defaultReplication.Shards
	}
}

// populateParticipants makes a lone node its own group.
func (c *Config) populateParticipants() {
	if len(c.Participants) == 0 {
		c.Participants = []ParticipantConfig{{ID: c.Node.ID, Address: c.Node.ListenAddress()}}
	}
}

func (c *Config) PopulateDefaults() {
	c.Node.PopulateDefaults()
	c.Gossip.PopulateDefaults()
	c.Replication.PopulateDefaults()
	c.populateParticipants()
}
