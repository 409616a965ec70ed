package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.AppPort != "8080" || c.DBDriver != "mysql" || c.QueueDriver != "redis" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.JobMaxAttempts != 3 || c.IdempotencyTTL() != 300*time.Second {
		t.Fatalf("attempts=%d ttl=%v", c.JobMaxAttempts, c.IdempotencyTTL())
	}
	if c.NotificationQueue != "notification-queue" {
		t.Fatalf("queue = %q", c.NotificationQueue)
	}
}

func TestLoad_EnvFileAndOverride(t *testing.T) {
	dir := t.TempDir()
	env := "APP_PORT=9000\nDB_DRIVER=sqlite\nSQLITE_PATH=/tmp/x.db\nJOB_BACKOFF_MS=150\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APP_PORT", "9100")
	t.Setenv("WORKER_CONCURRENCY", "7")

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.AppPort != "9100" {
		t.Fatalf("env must override file: APP_PORT=%q", c.AppPort)
	}
	if c.DBDriver != "sqlite" || c.DSN() != "/tmp/x.db" {
		t.Fatalf("driver=%q dsn=%q", c.DBDriver, c.DSN())
	}
	if c.WorkerConcurrency != 7 || c.JobBackoff() != 150*time.Millisecond {
		t.Fatalf("concurrency=%d backoff=%v", c.WorkerConcurrency, c.JobBackoff())
	}
}

func validConfig() *Config {
	return &Config{
		AppPort: "8080", DBDriver: "mysql",
		MySQLHost: "h", MySQLPort: "3306", MySQLDB: "d", MySQLUser: "u",
		QueueDriver: "redis", NotificationQueue: "q", JobMaxAttempts: 3,
		JWTSecret: "s",
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"no port", func(c *Config) { c.AppPort = "" }, "APP_PORT"},
		{"bad mysql port", func(c *Config) { c.MySQLPort = "notaport" }, "MYSQL_PORT"},
		{"missing mysql host", func(c *Config) { c.MySQLHost = "" }, "MySQL"},
		{"sqlite ok", func(c *Config) { c.DBDriver = "sqlite"; c.SQLitePath = "x"; c.MySQLHost = "" }, ""},
		{"sqlite no path", func(c *Config) { c.DBDriver = "sqlite" }, "SQLITE_PATH"},
		{"bad driver", func(c *Config) { c.DBDriver = "pg" }, "DB_DRIVER"},
		{"amqp no url", func(c *Config) { c.QueueDriver = "amqp" }, "RABBITMQ_URL"},
		{"bad queue", func(c *Config) { c.QueueDriver = "kafka" }, "QUEUE_DRIVER"},
		{"no queue name", func(c *Config) { c.NotificationQueue = "" }, "NOTIFICATION_QUEUE"},
		{"zero attempts", func(c *Config) { c.JobMaxAttempts = 0 }, "JOB_MAX_ATTEMPTS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			err := c.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateAPI_RequiresSecret(t *testing.T) {
	c := validConfig()
	c.JWTSecret = ""
	if err := c.ValidateAPI(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("err = %v", err)
	}
}

func TestMySQLDSN(t *testing.T) {
	c := validConfig()
	c.MySQLPass = "p"
	want := "u:p@tcp(h:3306)/d?multiStatements=true&parseTime=true&charset=utf8mb4,utf8"
	if got := c.DSN(); got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
}
