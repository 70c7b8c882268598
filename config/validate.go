package config

import (
	"fmt"
	"net"

	klog "github.com/Klingon-tech/klingnet-tokens/internal/log"
)

// Validate checks runtime node config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}
	if cfg.DataDir == "" && cfg.Storage.Engine != EngineMemory {
		return fmt.Errorf("datadir is required for storage.engine=%s", cfg.Storage.Engine)
	}

	if cfg.Storage.Engine == "" {
		cfg.Storage.Engine = EngineBadger
	}
	switch cfg.Storage.Engine {
	case EngineBadger, EngineMemory:
	default:
		return fmt.Errorf("storage.engine must be %q or %q", EngineBadger, EngineMemory)
	}

	if cfg.RPC.Port < 0 || cfg.RPC.Port > 65535 {
		return fmt.Errorf("rpc.port must be in range [0, 65535]")
	}
	for i, entry := range cfg.RPC.AllowedIPs {
		if _, _, err := net.ParseCIDR(entry); err == nil {
			continue
		}
		if net.ParseIP(entry) == nil {
			return fmt.Errorf("rpc.allowed[%d] %q is not an IP or CIDR", i, entry)
		}
	}

	if cfg.Log.Level != "" && !klog.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level %q must be debug, info, warn, error or disabled", cfg.Log.Level)
	}

	return nil
}
