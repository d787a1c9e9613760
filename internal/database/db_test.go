package database

import (
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renotrack/renovation-tracker/internal/config"
)

func TestDSNFromParts(t *testing.T) {
	dsn, err := DSN(config.Config{DBUser: "root", DBPass: "secret", DBHost: "db", DBPort: "3306", DBName: "renovation_trackerdb"})
	require.NoError(t, err)

	mc, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "root", mc.User)
	assert.Equal(t, "secret", mc.Passwd)
	assert.Equal(t, "db:3306", mc.Addr)
	assert.Equal(t, "renovation_trackerdb", mc.DBName)
	assert.True(t, mc.ParseTime)
}

func TestDSNForcesParseTime(t *testing.T) {
	dsn, err := DSN(config.Config{DSN: "app:pw@tcp(mysql:3306)/tracker"})
	require.NoError(t, err)

	mc, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, mc.ParseTime)
	assert.Equal(t, "tracker", mc.DBName)
	assert.Equal(t, "utf8mb4", mc.Params["charset"])
}

func TestDSNRejectsGarbage(t *testing.T) {
	_, err := DSN(config.Config{DSN: "root-at-localhost"})
	assert.Error(t, err)
}
