package conf

import (
	"context"
	configure "github.com/jom-io/gorig/utils/cofigure"
	"github.com/jom-io/gorig/utils/logger"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

const envPrefix = "LOGALYZER_"

const (
	KeyFormat      = "logalyzer.format"
	KeyTopN        = "logalyzer.top_n"
	KeyQueueSize   = "logalyzer.queue_size"
	KeyWorkers     = "logalyzer.workers"
	KeyMaxLineSize = "logalyzer.max_line_size"
	KeyHTTPAddr    = "logalyzer.http.addr"
	KeyHTTPToken   = "logalyzer.http.token"
	KeyHTTPRoot    = "logalyzer.http.root"
)

type Config struct {
	Format      string `json:"format"`
	TopN        int    `json:"topN"`
	QueueSize   int    `json:"queueSize"`
	Workers     int    `json:"workers"`
	MaxLineSize int    `json:"maxLineSize"`
	HTTP        HTTP   `json:"http"`
}

type HTTP struct {
	Addr  string `json:"addr"`
	Token string `json:"-"`
	// Root limits the files the HTTP surface may read. Empty allows any path.
	Root string `json:"root"`
}

func Default() Config {
	return Config{
		Format:      "apache_combined",
		TopN:        3,
		QueueSize:   2000,
		Workers:     0,
		MaxLineSize: 1024 * 1024,
		HTTP:        HTTP{Addr: ":8080"},
	}
}

var loaded = sync.OnceValue(func() Config {
	return load(func(key, def string) string {
		return configure.GetString(key, def)
	}, os.LookupEnv)
})

var current atomic.Pointer[Config]

// Get returns the settings read from the application config and overlaid by
// LOGALYZER_* environment variables, unless Set replaced them. The config is
// read once per process.
func Get() Config {
	if c := current.Load(); c != nil {
		return *c
	}
	return loaded()
}

// Set replaces the process settings, e.g. after command line flags were
// applied on top of Get.
func Set(c Config) {
	current.Store(&c)
}

// EnvName maps a key to its environment variable, e.g.
// logalyzer.http.addr -> LOGALYZER_HTTP_ADDR.
func EnvName(key string) string {
	key = strings.TrimPrefix(key, "logalyzer.")
	return envPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

type getter func(key, def string) string

type lookup func(key string) (string, bool)

func load(get getter, env lookup) Config {
	def := Default()
	value := func(key, fallback string) string {
		v := get(key, fallback)
		if e, ok := env(EnvName(key)); ok {
			v = e
		}
		return strings.TrimSpace(v)
	}
	number := func(key string, fallback, min int) int {
		raw := value(key, cast.ToString(fallback))
		n, err := cast.ToIntE(raw)
		if err != nil || n < min {
			logger.Warn(context.Background(), "invalid config value, using default",
				zap.String("key", key), zap.String("value", raw), zap.Int("default", fallback))
			return fallback
		}
		return n
	}

	c := Config{
		Format:      value(KeyFormat, def.Format),
		TopN:        number(KeyTopN, def.TopN, 0),
		QueueSize:   number(KeyQueueSize, def.QueueSize, 1),
		Workers:     number(KeyWorkers, def.Workers, 0),
		MaxLineSize: number(KeyMaxLineSize, def.MaxLineSize, 1),
		HTTP: HTTP{
			Addr:  value(KeyHTTPAddr, def.HTTP.Addr),
			Token: value(KeyHTTPToken, def.HTTP.Token),
			Root:  value(KeyHTTPRoot, def.HTTP.Root),
		},
	}
	if c.Format == "" {
		c.Format = def.Format
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = def.HTTP.Addr
	}
	return c
}
