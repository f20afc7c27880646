package cli

import (
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/matzehuels/archdeck/pkg/cache"
)

func TestServerCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := quietCLI()

	t.Run("local", func(t *testing.T) {
		cc, keyer, err := c.serverCache(t.Context(), serveOpts{})
		if err != nil {
			t.Fatal(err)
		}
		defer cc.Close()
		if keyer != nil {
			t.Error("local cache should use the default keyer")
		}
		if _, ok := cc.(*cache.FileCache); !ok {
			t.Errorf("cache = %T, want *cache.FileCache", cc)
		}
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cc, keyer, err := c.serverCache(t.Context(), serveOpts{redisAddr: mr.Addr()})
		if err != nil {
			t.Fatal(err)
		}
		defer cc.Close()
		if _, ok := cc.(*cache.RedisCache); !ok {
			t.Errorf("cache = %T, want *cache.RedisCache", cc)
		}
		key := keyer.LayoutKey("abc", cache.LayoutKeyOpts{})
		if !strings.HasPrefix(key, redisKeyPrefix()) {
			t.Errorf("key %q not scoped by build", key)
		}
	})

	t.Run("no cache wins over redis", func(t *testing.T) {
		cc, _, err := c.serverCache(t.Context(), serveOpts{redisAddr: "127.0.0.1:1", noCache: true})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := cc.(cache.NullCache); !ok {
			t.Errorf("cache = %T, want cache.NullCache", cc)
		}
	})
}

func TestDisplayAddr(t *testing.T) {
	if got := displayAddr(":8080"); got != "localhost:8080" {
		t.Errorf("displayAddr(:8080) = %q", got)
	}
	if got := displayAddr("0.0.0.0:9000"); got != "0.0.0.0:9000" {
		t.Errorf("displayAddr = %q", got)
	}
}
