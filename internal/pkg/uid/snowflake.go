package uid

import (
	"crypto/sha256"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-sortable int64 IDs using a snowflake node.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a Snowflake generator.
//
// The node number is derived from /etc/machine-id or the hostname so that
// replicas of the same deployment pick distinct nodes without coordination.
func NewSnowflake() (*Snowflake, error) {
	src := "novapass"
	if b, err := os.ReadFile("/etc/machine-id"); err == nil && strings.TrimSpace(string(b)) != "" {
		src = strings.TrimSpace(string(b))
	} else if h, err := os.Hostname(); err == nil && strings.TrimSpace(h) != "" {
		src = strings.TrimSpace(h)
	}

	sum := sha256.Sum256([]byte(src))
	nodeNum := int64(sum[0])<<2 | int64(sum[1])>>6 // 0..1023

	node, err := snowflake.NewNode(nodeNum)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new snowflake ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
