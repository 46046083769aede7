package db

import (
	"net/url"
	"testing"

	"github.com/foodorder/apiserver/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresURL(t *testing.T) {
	t.Parallel()

	raw := PostgresURL(config.DatabaseConfig{
		Host:     "db.internal",
		Port:     6543,
		User:     "shop",
		Password: "p@ss/word",
		DBName:   "shop_db",
	})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db.internal:6543", u.Host)
	assert.Equal(t, "shop", u.User.Username())
	password, _ := u.User.Password()
	assert.Equal(t, "p@ss/word", password)
	assert.Equal(t, "/shop_db", u.Path)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))

	secure := PostgresURL(config.DatabaseConfig{Host: "h", Port: 1, UseSSL: true})
	u, err = url.Parse(secure)
	require.NoError(t, err)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}
