package testutils

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"github.com/yakir1992/todoapp/utils"
	"go.mongodb.org/mongo-driver/mongo"
)

var loadEnvOnce sync.Once

// LoadTestEnv loads .env.test from the module root, once per test binary.
// Variables already set in the environment win.
func LoadTestEnv() {
	loadEnvOnce.Do(func() {
		if root := findProjectRoot(); root != "" {
			_ = godotenv.Load(filepath.Join(root, ".env.test"))
		}
	})
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// MongoDB connects to TEST_MONGO_URI and hands back a throwaway database
// that is dropped when the test ends. The test is skipped when no server
// is configured.
func MongoDB(t *testing.T) *mongo.Database {
	t.Helper()
	LoadTestEnv()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := utils.NewMongoClient(ctx, utils.MongoOptions{
		URI:             uri,
		MaxPoolSize:     uint64(utils.GetEnvAsInt("MONGO_MAX_POOL_SIZE", 5)),
		MaxConnIdleTime: time.Minute,
	})
	require.NoError(t, err)

	db := client.Database("lessismore_test_" + utils.GenerateID()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("Warning: failed to drop test database %s: %v", db.Name(), err)
		}
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("Warning: failed to disconnect: %v", err)
		}
	})
	return db
}
