package configs

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultIdentityHeader is the header the access proxy uses to forward the
// verified identity token.
const DefaultIdentityHeader = "Cf-Access-Jwt-Assertion"

// Application configs
type Config struct {
	ServerAddress   string `json:"server_address,omitempty"`
	ServerName      string `json:"server_name,omitempty"`
	FileStoragePath string `json:"file_storage_path,omitempty"`
	DatabaseDSN     string `json:"database_dsn,omitempty"`
	EnableHTTPS     bool   `json:"enable_https"`
	MultiUser       bool   `json:"multi_user"`
	IdentityHeader  string `json:"identity_header,omitempty"`
}

// Parse configs. Precedence: defaults < JSON config file < flags < env vars.
// A .env file in the working directory is loaded into the environment first.
func Parse() Config {
	var (
		flagServerAddress   string
		flagServerName      string
		flagFileStoragePath string
		flagDatabaseDSN     string
		flagEnableHTTPS     bool
		flagMultiUser       bool
		flagIdentityHeader  string
		configFilePath      string
	)
	flag.StringVar(&flagServerAddress, "a", "", "server's address")
	flag.StringVar(&flagServerName, "n", "", "public host name (used for the TLS certificate)")
	flag.StringVar(&flagFileStoragePath, "f", "", "file storage path")
	flag.StringVar(&flagDatabaseDSN, "d", "", "database URL")
	flag.BoolVar(&flagEnableHTTPS, "s", false, "enable HTTPS")
	flag.BoolVar(&flagMultiUser, "m", false, "enable multi-user mode (per-owner links, trusted header auth)")
	flag.StringVar(&flagIdentityHeader, "i", "", "trusted identity token header name")
	flag.StringVar(&configFilePath, "c", "", "file path with json application configs")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %s\n", err.Error())
	}
	if envConfigFilePath := os.Getenv("CONFIG"); envConfigFilePath != "" {
		configFilePath = envConfigFilePath
	}

	config := Config{
		ServerAddress:  "localhost:8080",
		IdentityHeader: DefaultIdentityHeader,
	}
	configData, err := os.ReadFile(configFilePath)
	if err == nil {
		if err = json.Unmarshal(configData, &config); err != nil {
			log.Printf("failed to parse configs: %s\n", err.Error())
		}
	} else {
		log.Printf("failed to read configs: %s\n", err.Error())
	}

	if flagServerAddress != "" {
		config.ServerAddress = flagServerAddress
	}
	if flagServerName != "" {
		config.ServerName = flagServerName
	}
	if flagFileStoragePath != "" {
		config.FileStoragePath = flagFileStoragePath
	}
	if flagDatabaseDSN != "" {
		config.DatabaseDSN = flagDatabaseDSN
	}
	if flagIdentityHeader != "" {
		config.IdentityHeader = flagIdentityHeader
	}

	if envServerAddress := os.Getenv("SERVER_ADDRESS"); envServerAddress != "" {
		config.ServerAddress = envServerAddress
	}
	if envServerName := os.Getenv("SERVER_NAME"); envServerName != "" {
		config.ServerName = envServerName
	}
	if envFileStoragePath := os.Getenv("FILE_STORAGE_PATH"); envFileStoragePath != "" {
		config.FileStoragePath = envFileStoragePath
	}
	if envDatabaseDSN := os.Getenv("DATABASE_DSN"); envDatabaseDSN != "" {
		config.DatabaseDSN = envDatabaseDSN
	}
	if envIdentityHeader := os.Getenv("IDENTITY_HEADER"); envIdentityHeader != "" {
		config.IdentityHeader = envIdentityHeader
	}

	envEnableHTTPS, err := strconv.ParseBool(os.Getenv("ENABLE_HTTPS"))
	if err == nil {
		config.EnableHTTPS = config.EnableHTTPS || flagEnableHTTPS || envEnableHTTPS
	} else {
		config.EnableHTTPS = config.EnableHTTPS || flagEnableHTTPS
	}
	envMultiUser, err := strconv.ParseBool(os.Getenv("MULTI_USER"))
	if err == nil {
		config.MultiUser = config.MultiUser || flagMultiUser || envMultiUser
	} else {
		config.MultiUser = config.MultiUser || flagMultiUser
	}

	return config
}

// Use database storage
func (c Config) UseDBStorage() bool {
	return c.DatabaseDSN != ""
}

// Use file storage
func (c Config) UseFileStorage() bool {
	return c.FileStoragePath != ""
}

// Use HTTPS
func (c Config) UseHTTPS() bool {
	return c.EnableHTTPS
}
