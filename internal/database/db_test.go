package database

import (
	"context"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN(Params{User: "pos", Pass: "s3cret", Host: "db", Port: "3307", Name: "cinema"})

	c, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "pos", c.User)
	assert.Equal(t, "s3cret", c.Passwd)
	assert.Equal(t, "tcp", c.Net)
	assert.Equal(t, "db:3307", c.Addr)
	assert.Equal(t, "cinema", c.DBName)
	assert.True(t, c.ParseTime)
	assert.Equal(t, time.UTC, c.Loc)
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestDSNWithoutPassword(t *testing.T) {
	c, err := mysql.ParseDSN(DSN(Params{User: "root", Host: "localhost", Port: "3306", Name: "cinema"}))
	require.NoError(t, err)
	assert.Equal(t, "root", c.User)
	assert.Empty(t, c.Passwd)
}

func TestOpenFailsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	db, err := Open(ctx, Params{User: "root", Host: "127.0.0.1", Port: "1", Name: "cinema"})
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "ping mysql 127.0.0.1/cinema")
}
