// Package autoload initializes the global logger from environment
// configuration when blank-imported.
package autoload

import (
	configx "github.com/gitteach/agent-core/pkg/config"
	logx "github.com/gitteach/agent-core/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
