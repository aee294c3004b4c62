package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_DSN(t *testing.T) {
	cfg := Config{Host: "db", Port: "5433", User: "app", Password: "pw", DBName: "users", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5433 user=app password=pw dbname=users sslmode=disable", cfg.DSN())
}
