package config

import (
	"time"

	"github.com/yakir1992/todoapp/utils"
)

type DatabaseConfig struct {
	URI                string
	DatabaseName       string
	TodosCollection    string
	UsersCollection    string
	SessionsCollection string
	MaxPoolSize        uint64
	MinPoolSize        uint64
	MaxConnIdleTime    time.Duration
	RetryWrites        bool
	// SetupIndexes creates the collection indexes at startup.
	SetupIndexes bool
	// IndexFallback answers range queries from a user-only scan when the
	// date-range index is missing.
	IndexFallback bool
}

func LoadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URI:                utils.GetEnvAsString("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName:       utils.GetEnvAsString("MONGO_DB", "lessismore"),
		TodosCollection:    utils.GetEnvAsString("TODOS_COLLECTION", "todos"),
		UsersCollection:    utils.GetEnvAsString("USERS_COLLECTION", "users"),
		SessionsCollection: utils.GetEnvAsString("SESSION_COLLECTION", "sessions"),
		MaxPoolSize:        utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", 100),
		MinPoolSize:        utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", 10),
		MaxConnIdleTime:    time.Duration(utils.GetEnvAsInt("MONGO_MAX_CONN_IDLE_TIME", 60)) * time.Second,
		RetryWrites:        utils.GetEnvAsBool("MONGO_RETRY_WRITES", true),
		SetupIndexes:       utils.GetEnvAsBool("MONGO_SETUP_INDEXES", true),
		IndexFallback:      utils.GetEnvAsBool("TODOS_INDEX_FALLBACK", true),
	}
}
