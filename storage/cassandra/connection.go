package cassandra

import (
	"fmt"
	"sync"
	"time"

	"github.com/gocql/gocql"

	"github.com/sharedcode/ocaf"
)

// Config contains configuration for connecting to a Cassandra cluster and the documents keyspace.
type Config struct {
	ClusterHosts []string
	// Keyspace holds the documents table. Defaults to "ocaf".
	Keyspace string
	// Consistency is the default consistency level for queries.
	Consistency gocql.Consistency
	// ConnectionTimeout is the session connection timeout.
	ConnectionTimeout time.Duration
	// Authenticator is used when the cluster requires authentication.
	Authenticator gocql.Authenticator
	// ReplicationClause defines the keyspace replication (e.g., SimpleStrategy).
	ReplicationClause string
}

// ConfigFrom converts the file configuration section.
func ConfigFrom(c ocaf.CassandraConfig) Config {
	return Config{
		ClusterHosts:      c.ClusterHosts,
		Keyspace:          c.Keyspace,
		ConnectionTimeout: c.ConnectionTimeout,
		ReplicationClause: c.ReplicationClause,
	}
}

func (c Config) withDefaults() Config {
	if c.Keyspace == "" {
		c.Keyspace = "ocaf"
	}
	if c.Consistency == gocql.Any {
		// Defaults to LocalQuorum consistency. You should set it to an appropriate level.
		c.Consistency = gocql.LocalQuorum
	}
	if c.ReplicationClause == "" {
		c.ReplicationClause = "{'class':'SimpleStrategy', 'replication_factor':1}"
	}
	return c
}

// Connection wraps a Cassandra session and its configuration.
type Connection struct {
	Session *gocql.Session
	Config
}

var connection *Connection
var mux sync.Mutex

// OpenConnection returns the existing global Connection or opens a new one, creating the
// keyspace and documents table when missing.
func OpenConnection(config Config) (*Connection, error) {
	mux.Lock()
	defer mux.Unlock()
	if connection != nil {
		return connection, nil
	}

	config = config.withDefaults()
	cluster := gocql.NewCluster(config.ClusterHosts...)
	cluster.Consistency = config.Consistency
	if config.ConnectionTimeout > 0 {
		cluster.ConnectTimeout = config.ConnectionTimeout
	}
	if config.Authenticator != nil {
		cluster.Authenticator = config.Authenticator
		config.Authenticator = nil
	}
	s, err := cluster.CreateSession()
	if err != nil {
		return nil, err
	}
	if err := s.Query(fmt.Sprintf("CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = %s;", config.Keyspace, config.ReplicationClause)).Exec(); err != nil {
		s.Close()
		return nil, err
	}
	if err := s.Query(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.%s (name text PRIMARY KEY, payload blob, updated bigint);", config.Keyspace, tableName)).Exec(); err != nil {
		s.Close()
		return nil, err
	}
	connection = &Connection{Session: s, Config: config}
	return connection, nil
}

// CloseConnection closes and clears the global connection, if it exists.
func CloseConnection() {
	mux.Lock()
	defer mux.Unlock()
	if connection == nil {
		return
	}
	connection.Session.Close()
	connection = nil
}
