// api/config/config.go
package config

import (
	"log"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server        ServerConfiguration
	Neo4j         DatabaseConfiguration
	Redis         RedisConfiguration
	Elasticsearch ElasticsearchConfiguration
	Engine        EngineConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port string
}

// DatabaseConfiguration stores data for the directory source connection
type DatabaseConfiguration struct {
	URI string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr            string
	DefaultCacheTTL string
}

// ElasticsearchConfiguration stores data for the SIEM forwarder connection
type ElasticsearchConfiguration struct {
	URL string
}

// EngineConfiguration stores the evaluation engine buffer sizes
type EngineConfiguration struct {
	RequestHistorySize int
	EventBufferSize    int
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")

	viper.AutomaticEnv() // read in environment variables that match

	// Set default configurations
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.rateLimitRequests", 100)
	viper.SetDefault("neo4j.enabled", false)
	viper.SetDefault("auth.adminGroups", []string{})
	viper.SetDefault("auth.jwksUrl", "")
	viper.SetDefault("neo4j.uri", "bolt://localhost:7687")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")
	viper.SetDefault("redis.defaultCacheTTL", "10m")
	viper.SetDefault("log.dir", "logging")

	viper.SetDefault("engine.requestHistorySize", 10000)
	viper.SetDefault("engine.eventBufferSize", 5000)
	viper.SetDefault("engine.highRiskThreshold", 75)

	// Risk calculator weights. These are the default scoring profile; they
	// are product decisions, not algorithm constants, so every one is
	// overridable.
	viper.SetDefault("risk.base", 50)
	viper.SetDefault("risk.lowTrustPenalty", 25)
	viper.SetDefault("risk.nonCompliantDevicePenalty", 20)
	viper.SetDefault("risk.unusualLocationPenalty", 30)
	viper.SetDefault("risk.offHoursPenalty", 15)
	viper.SetDefault("risk.externalAccessPenalty", 20)
	viper.SetDefault("risk.offHoursStart", 22)
	viper.SetDefault("risk.offHoursEnd", 6)

	// Continuous authentication thresholds.
	viper.SetDefault("session.terminateBelow", 30)
	viper.SetDefault("session.reauthBelow", 50)
	viper.SetDefault("session.monitorBelow", 70)

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	// Unmarshal the configuration into the Configuration struct
	err := viper.Unmarshal(&config)
	if err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 retrieves a float64 value from the configuration
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}
