package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/goalflow-backend/internal/platform/logger"
	"github.com/yungbote/goalflow-backend/internal/realtime/bus"
)

type Clients struct {
	// SSEBus is nil unless REDIS_ADDR is set; a single instance then
	// broadcasts straight into its own hub.
	SSEBus bus.Bus
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		b, err := bus.NewRedisBus(bus.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Channel:  cfg.RedisChannel,
		}, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		c.SSEBus = b
	}
	return c, nil
}

func (c Clients) Close() error {
	if c.SSEBus != nil {
		return c.SSEBus.Close()
	}
	return nil
}
