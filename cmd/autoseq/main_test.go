package main

import (
	"testing"

	"github.com/koustreak/autoseq/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "users", want: []string{"users"}},
		{in: "users, posts ,", want: []string{"users", "posts"}},
		{in: " , ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitList(tt.in))
		})
	}
}

func TestFlags_Apply(t *testing.T) {
	cfg := config.Default()
	cfg.Generate.Concurrency = 4

	flags{driver: "sqlite", dsn: "shop.db", out: "./out", tables: "users,posts", concurrency: -1, addr: ":9090"}.apply(cfg)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "shop.db", cfg.Database.DSN)
	assert.Equal(t, "./out", cfg.Generate.Directory)
	assert.Equal(t, []string{"users", "posts"}, cfg.Generate.Tables)
	assert.Equal(t, 4, cfg.Generate.Concurrency, "unset concurrency flag keeps the config value")
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}
