package db

import (
	"strings"
	"testing"

	"VidPlayer/config"
)

func TestMySQLDSN(t *testing.T) {
	cfg := &config.Config{
		DBUser:     "vid",
		DBPassword: "p@ss",
		DBHost:     "db.local",
		DBPort:     "3307",
		DBName:     "vidplayer",
	}
	dsn := MySQLDSN(cfg)

	if !strings.HasPrefix(dsn, "vid:p@ss@tcp(db.local:3307)/vidplayer?") {
		t.Errorf("MySQLDSN() = %q", dsn)
	}
	for _, want := range []string{"parseTime=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("MySQLDSN() = %q, missing %s", dsn, want)
		}
	}
}
