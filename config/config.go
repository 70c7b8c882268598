// Package config handles node configuration.
//
// Settings come from three layers, lowest precedence first: per-network
// defaults, the tokend.conf file in the data directory, and command-line
// flags.
package config

import (
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// StorageEngine selects the ledger's key-value backend.
type StorageEngine string

const (
	EngineBadger StorageEngine = "badger"
	EngineMemory StorageEngine = "memory"
)

// Config holds node runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Ledger storage
	Storage StorageConfig

	// RPC server
	RPC RPCConfig

	// Logging
	Log LogConfig
}

// StorageConfig holds ledger storage settings.
type StorageConfig struct {
	Engine StorageEngine `conf:"storage.engine"`
}

// RPCConfig holds RPC server settings.
type RPCConfig struct {
	Enabled     bool     `conf:"rpc.enabled"`
	Addr        string   `conf:"rpc.addr"`
	Port        int      `conf:"rpc.port"`
	AllowedIPs  []string `conf:"rpc.allowed"`
	CORSOrigins []string `conf:"rpc.cors"` // Allowed CORS origins ("*" = all).
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.klingnet-tokens
//	macOS:   ~/Library/Application Support/KlingnetTokens
//	Windows: %APPDATA%\KlingnetTokens
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".klingnet-tokens"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "KlingnetTokens")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "KlingnetTokens")
		}
		return filepath.Join(home, "AppData", "Roaming", "KlingnetTokens")
	default:
		return filepath.Join(home, ".klingnet-tokens")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// LedgerDir returns the ledger database directory.
func (c *Config) LedgerDir() string {
	return filepath.Join(c.NetworkDataDir(), "ledger")
}

// KeystoreDir returns the keystore directory.
func (c *Config) KeystoreDir() string {
	return filepath.Join(c.NetworkDataDir(), "keystore")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "tokend.conf")
}

// RPCListenAddr returns the host:port the RPC server binds to.
func (c *Config) RPCListenAddr() string {
	return net.JoinHostPort(c.RPC.Addr, strconv.Itoa(c.RPC.Port))
}
