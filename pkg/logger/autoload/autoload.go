// Package autoload initializes the global logger from the LOG_* environment
// on blank import.
package autoload

import (
	configx "github.com/preflightai/preflight/pkg/config"
	logx "github.com/preflightai/preflight/pkg/logger"
)

func init() {
	cfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*cfg)
}
