package redis

import (
	"crypto/tls"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/sharedcode/ocaf"
)

// Options holds the Redis connection settings.
type Options struct {
	// Redis server(cluster) address.
	Address string
	// Password required when connecting to the Redis server.
	Password string
	// DB to connect to.
	DB int
	// TLS config.
	TLSConfig *tls.Config
}

// DefaultOptions.
func DefaultOptions() Options {
	return Options{
		Address: "localhost:6379",
	}
}

// OptionsFrom converts the file configuration section into connection Options.
func OptionsFrom(c ocaf.RedisCacheConfig) Options {
	o := DefaultOptions()
	if c.Address != "" {
		o.Address = c.Address
	}
	o.Password = c.Password
	o.DB = c.DB
	return o
}

// Connection contains Redis client connection object and the Options used to connect.
type Connection struct {
	Client  *redis.Client
	Options Options
}

var connection *Connection
var mux sync.Mutex

// OpenConnection creates a singleton connection and returns it for every call.
func OpenConnection(options Options) *Connection {
	mux.Lock()
	defer mux.Unlock()
	if connection == nil {
		connection = openConnection(options)
	}
	return connection
}

// CloseConnection closes the singleton connection if open.
func CloseConnection() error {
	mux.Lock()
	defer mux.Unlock()
	if connection == nil {
		return nil
	}
	err := connection.Client.Close()
	connection = nil
	return err
}

func openConnection(options Options) *Connection {
	client := redis.NewClient(&redis.Options{
		TLSConfig: options.TLSConfig,
		Addr:      options.Address,
		Password:  options.Password,
		DB:        options.DB})
	return &Connection{
		Client:  client,
		Options: options,
	}
}
