// Package id hands out the int64 identifiers used for users, sessions
// and messages. They are snowflake IDs, so ordering by ID is ordering
// by creation time, which the message history queries rely on.
package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init sets up the generator node. Call it once at startup before any
// store writes; nodeID must be unique per running instance.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New returns the next ID.
func New() int64 {
	return node.Generate().Int64()
}
