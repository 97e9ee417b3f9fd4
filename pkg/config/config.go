package config

import (
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Node         NodeConfig          `yaml:"node"`
	Gossip       GossipConfig        `yaml:"gossip"`
	Participants []ParticipantConfig `yaml:"participants"`
	Replication  ReplicationConfig   `yaml:"replication"`
}

type NodeConfig struct {
	ID          string `yaml:"id"`
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
	// Author is stamped on recipes created by this node
	Author string `yaml:"author"`
}

type GossipConfig struct {
	Protocol         string `yaml:"protocol"`
	IntervalMs       int    `yaml:"interval_ms"`
	DelayMs          int    `yaml:"delay_ms"`
	Fanout           int    `yaml:"fanout"`
	SessionTimeoutMs int    `yaml:"session_timeout_ms"`
}

// ParticipantConfig описывает участника группы, включая сам узел
type ParticipantConfig struct {
	ID      string `yaml:"id"`
	Address string `yaml:"address"`
}

type ReplicationConfig struct {
	// PropagationDegree is how many partners a local change is pushed to
	// right away; 0 leaves it to the periodic rounds.
	PropagationDegree int `yaml:"propagation_degree"`
	Shards            int `yaml:"shards"`
}

func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *NodeConfig) ListenAddress() string {
	return net.JoinHostPort(c.BindAddress, strconv.Itoa(c.Port))
}

func (c *GossipConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

func (c *GossipConfig) Delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

func (c *GossipConfig) SessionTimeout() time.Duration {
	return time.Duration(c.SessionTimeoutMs) * time.Millisecond
}
