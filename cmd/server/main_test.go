package main

import (
	"strings"
	"testing"

	"github.com/anonto42/discgolf/backend/pkg/config"
	"github.com/anonto42/discgolf/backend/pkg/logger"
)

func TestRunReturnsStartupErrors(t *testing.T) {
	cfg := &config.Config{Port: "0", Env: "test", MongoURI: "mongodb://localhost:27017"}

	err := run(cfg, logger.Nop())
	if err == nil {
		t.Fatal("expected run to fail without a Postgres connection string")
	}
	if !strings.Contains(err.Error(), "initialize databases") {
		t.Errorf("err = %v", err)
	}
}
