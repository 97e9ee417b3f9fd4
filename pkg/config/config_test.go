package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"recipes-tsae/pkg/tsae"
)

const sample = `
node:
  id: A
  port: 7001
  author: alice
gossip:
  interval_ms: 2000
  fanout: 2
participants:
  - id: A
    address: 127.0.0.1:7001
  - id: B
    address: 127.0.0.1:7002
replication:
  propagation_degree: 1
`

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestRead(t *testing.T) {
	cfg, err := Read(writeConfig(t, sample))
	require.NoError(t, err)
	cfg.PopulateDefaults()
	require.NoError(t, cfg.Validate())

	require.Equal(t, "A", cfg.Node.ID)
	require.Equal(t, "alice", cfg.Node.Author)
	require.Equal(t, "127.0.0.1:7001", cfg.Node.ListenAddress())
	require.Equal(t, 2*time.Second, cfg.Gossip.Interval())
	require.Equal(t, 500*time.Millisecond, cfg.Gossip.Delay())
	require.Equal(t, 5*time.Second, cfg.Gossip.SessionTimeout())
	require.Equal(t, 2, cfg.Gossip.Fanout)
	require.Equal(t, "TSAE", cfg.Gossip.Protocol)
	require.Len(t, cfg.Participants, 2)
	require.Equal(t, 1, cfg.Replication.PropagationDegree)
	require.Equal(t, 64, cfg.Replication.Shards)
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Read(writeConfig(t, "node: [not, a, map"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, []ParticipantConfig{{ID: "node", Address: "127.0.0.1:9090"}}, cfg.Participants)
}

func TestPopulateDefaults_GeneratesID(t *testing.T) {
	var cfg Config
	cfg.PopulateDefaults()
	require.NotEmpty(t, cfg.Node.ID)
	require.Equal(t, cfg.Node.ID, cfg.Node.Author)
	require.Len(t, cfg.Participants, 1)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		err    error
	}{
		{"ok", func(c *Config) {}, nil},
		{"unknown protocol", func(c *Config) { c.Gossip.Protocol = "SWIM" }, ErrUnknownProtocol},
		{"negative interval", func(c *Config) { c.Gossip.IntervalMs = -1 }, ErrInvalidInterval},
		{"negative delay", func(c *Config) { c.Gossip.DelayMs = -1 }, ErrInvalidDelay},
		{"negative fanout", func(c *Config) { c.Gossip.Fanout = -2 }, ErrInvalidFanout},
		{"negative timeout", func(c *Config) { c.Gossip.SessionTimeoutMs = -1 }, ErrInvalidTimeout},
		{"bad port", func(c *Config) { c.Node.Port = 70000 }, ErrInvalidPort},
		{"self missing", func(c *Config) { c.Node.ID = "Z" }, ErrSelfNotParticipant},
		{"duplicate participant", func(c *Config) {
			c.Participants = append(c.Participants, ParticipantConfig{ID: "B", Address: "x:1"})
		}, ErrDuplicateParticipant},
		{"participant without address", func(c *Config) { c.Participants[1].Address = "" }, ErrMissingAddress},
		{"participant without id", func(c *Config) { c.Participants[1].ID = "" }, ErrMissingParticipantID},
		{"negative propagation", func(c *Config) { c.Replication.PropagationDegree = -1 }, ErrInvalidPropagationDegree},
		{"negative shards", func(c *Config) { c.Replication.Shards = -1 }, ErrInvalidShards},
		{"id at limit", func(c *Config) {
			c.Node.ID = strings.Repeat("n", tsae.MaxNodeIDLen)
			c.Participants[0].ID = c.Node.ID
		}, nil},
		{"id too long", func(c *Config) {
			c.Node.ID = strings.Repeat("n", tsae.MaxNodeIDLen+1)
			c.Participants[0].ID = c.Node.ID
		}, ErrNodeIDTooLong},
		{"author too long", func(c *Config) { c.Node.Author = strings.Repeat("a", tsae.MaxNodeIDLen+1) }, ErrAuthorTooLong},
		{"participant id too long", func(c *Config) { c.Participants[1].ID = strings.Repeat("p", tsae.MaxNodeIDLen+1) }, ErrNodeIDTooLong},
		{"too many participants", func(c *Config) {
			for i := len(c.Participants); i <= tsae.MaxParticipants; i++ {
				c.Participants = append(c.Participants, ParticipantConfig{ID: fmt.Sprintf("P%d", i), Address: "x:1"})
			}
		}, ErrTooManyParticipants},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Read(writeConfig(t, sample))
			require.NoError(t, err)
			cfg.PopulateDefaults()
			tc.mutate(cfg)

			err = cfg.Validate()
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	var cfg *Config
	require.ErrorIs(t, cfg.Validate(), ErrConfigIsNil)
}
