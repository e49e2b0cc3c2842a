// Package cassandra stores document snapshots as rows of a Cassandra table.
package cassandra

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/gocql/gocql"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/storage"
)

const tableName = "documents"

// Driver is a storage.Driver over the documents table.
type Driver struct {
	conn *Connection
}

// New returns a driver over an open connection.
func New(conn *Connection) (*Driver, error) {
	if conn == nil || conn.Session == nil {
		return nil, fmt.Errorf("cassandra connection is closed; call OpenConnection(config) to open it")
	}
	return &Driver{conn: conn}, nil
}

// NewFromOptions opens the global connection described by opts.
func NewFromOptions(opts ocaf.StorageOptions) (*Driver, error) {
	if opts.Cassandra == nil {
		return nil, fmt.Errorf("cassandra driver needs the cassandra configuration section")
	}
	c, err := OpenConnection(ConfigFrom(*opts.Cassandra))
	if err != nil {
		return nil, err
	}
	return New(c)
}

func (d *Driver) Put(ctx context.Context, name string, data []byte) error {
	stmt := fmt.Sprintf("INSERT INTO %s.%s (name, payload, updated) VALUES(?,?,?);", d.conn.Keyspace, tableName)
	return d.conn.Session.Query(stmt, name, data, time.Now().UnixMilli()).WithContext(ctx).Exec()
}

func (d *Driver) Get(ctx context.Context, name string) ([]byte, error) {
	stmt := fmt.Sprintf("SELECT payload FROM %s.%s WHERE name = ?;", d.conn.Keyspace, tableName)
	var ba []byte
	if err := d.conn.Session.Query(stmt, name).WithContext(ctx).Scan(&ba); err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, storage.NotFound(name)
		}
		return nil, err
	}
	return ba, nil
}

func (d *Driver) Remove(ctx context.Context, name string) error {
	stmt := fmt.Sprintf("DELETE FROM %s.%s WHERE name = ?;", d.conn.Keyspace, tableName)
	return d.conn.Session.Query(stmt, name).WithContext(ctx).Exec()
}

func (d *Driver) List(ctx context.Context) ([]string, error) {
	stmt := fmt.Sprintf("SELECT name FROM %s.%s;", d.conn.Keyspace, tableName)
	iter := d.conn.Session.Query(stmt).WithContext(ctx).Iter()
	var r []string
	var n string
	for iter.Scan(&n) {
		r = append(r, n)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	slices.Sort(r)
	return r, nil
}
