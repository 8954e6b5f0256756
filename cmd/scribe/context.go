package main

import (
	"fmt"
	"strings"
	"sync"

	"scribe/internal/api"
	"scribe/internal/config"
)

type commandContext struct {
	serverFlag *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(serverFlag, configFlag *string) *commandContext {
	return &commandContext{
		serverFlag: serverFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// serverAddress resolves the daemon address: the --server flag wins, then the
// configured API bind, then the built-in default.
func (c *commandContext) serverAddress() string {
	if c.serverFlag != nil {
		if addr := strings.TrimSpace(*c.serverFlag); addr != "" {
			return addr
		}
	}
	if cfg, err := c.ensureConfig(); err == nil && cfg != nil {
		if addr := strings.TrimSpace(cfg.Paths.APIBind); addr != "" {
			return addr
		}
	}
	return "127.0.0.1:7419"
}

func (c *commandContext) client() *api.Client {
	return api.NewClient(c.serverAddress())
}

func wrapDaemonError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "unreachable") {
		return fmt.Errorf("%w; start the daemon with `scribed`", err)
	}
	return err
}
