package db

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard-pm/apiserver/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db.internal",
		Port:     6543,
		User:     "taskboard",
		Password: "p@ss word",
		DBName:   "boards",
		UseSSL:   true,
	})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db.internal:6543", u.Host)
	assert.Equal(t, "/boards", u.Path)
	assert.Equal(t, "require", u.Query().Get("sslmode"))

	password, ok := u.User.Password()
	require.True(t, ok)
	assert.Equal(t, "p@ss word", password)
}

func TestDSNDisablesSSLByDefault(t *testing.T) {
	u, err := url.Parse(DSN(config.DatabaseConfig{Host: "localhost", Port: 5432}))
	require.NoError(t, err)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
}
