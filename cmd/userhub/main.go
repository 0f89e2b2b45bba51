package main

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/userhub/internal/clock"
	"github.com/smallbiznis/userhub/internal/config"
	"github.com/smallbiznis/userhub/internal/migration"
	"github.com/smallbiznis/userhub/internal/observability"
	"github.com/smallbiznis/userhub/internal/profile"
	"github.com/smallbiznis/userhub/internal/rpc"
	"github.com/smallbiznis/userhub/internal/settings"
	"github.com/smallbiznis/userhub/internal/status"
	"github.com/smallbiznis/userhub/internal/subscription"
	"github.com/smallbiznis/userhub/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Record managers
		profile.Module,
		settings.Module,
		subscription.Module,
		status.Module,

		// Transport
		rpc.Module,
	)
	app.Run()
}

// RegisterSnowflake builds the process-wide id generator. NODE_ID
// distinguishes replicas; a single instance can leave it unset.
func RegisterSnowflake() *snowflake.Node {
	nodeID := int64(1)
	if v := os.Getenv("NODE_ID"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			nodeID = parsed
		}
	}
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		panic(err)
	}
	return node
}
