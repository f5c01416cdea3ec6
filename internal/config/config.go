package config

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type StoreConfig struct {
	// Driver is "postgres" or "badger".
	Driver     string
	BadgerPath string
}

type VotesConfig struct {
	// Guarded enables compare-and-swap on vote writes. With it disabled
	// concurrent votes on the same item may overwrite each other.
	Guarded     bool
	MaxAttempts int
}

type LiveConfig struct {
	// Broker is "redis" or "memory".
	Broker string
}

type Config struct {
	DB              DBConfig
	Store           StoreConfig
	Votes           VotesConfig
	Live            LiveConfig
	RedisAddr       string
	RabbitMQConn    string
	AccessSecret    string
	ClientOrigin    string
	Port            string
	ShutdownTimeout time.Duration
}

func LoadEnv() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load()
}

func InitConfig() error {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	SetDefaults()
	return viper.ReadInConfig()
}

func SetDefaults() {
	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.shutdown-timeout", 10*time.Second)
	viper.SetDefault("client.origin", "http://localhost:3000")
	viper.SetDefault("store.driver", "postgres")
	viper.SetDefault("store.badger-path", "data/badger")
	viper.SetDefault("votes.guarded", true)
	viper.SetDefault("votes.max-attempts", 5)
	viper.SetDefault("live.broker", "redis")
}

// Load assembles the configuration from viper settings and environment variables.
func Load() Config {
	return Config{
		DB: DBConfig{
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			DBName:   os.Getenv("POSTGRES_DATABASE"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		},
		Store: StoreConfig{
			Driver:     viper.GetString("store.driver"),
			BadgerPath: viper.GetString("store.badger-path"),
		},
		Votes: VotesConfig{
			Guarded:     viper.GetBool("votes.guarded"),
			MaxAttempts: viper.GetInt("votes.max-attempts"),
		},
		Live: LiveConfig{
			Broker: viper.GetString("live.broker"),
		},
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RabbitMQConn:    os.Getenv("RABBITMQ_CONN_STRING"),
		AccessSecret:    os.Getenv("ACCESS_SECRET"),
		ClientOrigin:    viper.GetString("client.origin"),
		Port:            viper.GetString("app.port"),
		ShutdownTimeout: viper.GetDuration("app.shutdown-timeout"),
	}
}
