package utils

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.mongodb.org/mongo-driver/event"
)

type MongoMetrics struct {
	ActiveConnections  int64
	CreatedConnections int64
	ClosedConnections  int64
	CheckedOut         int64
	LastEventAt        time.Time
}

var (
	mongoActive    atomic.Int64
	mongoCreated   atomic.Int64
	mongoClosed    atomic.Int64
	mongoInUse     atomic.Int64
	mongoLastEvent atomic.Int64

	MongoPoolConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mongo_pool_connections",
			Help: "MongoDB pool connections by state",
		},
		[]string{"state"}, // open, in_use
	)
)

// PoolMonitor feeds driver pool events into the mongo metrics.
func PoolMonitor() *event.PoolMonitor {
	return &event.PoolMonitor{Event: handlePoolEvent}
}

func handlePoolEvent(e *event.PoolEvent) {
	switch e.Type {
	case event.ConnectionCreated:
		mongoCreated.Add(1)
		mongoActive.Add(1)
	case event.ConnectionClosed:
		mongoClosed.Add(1)
		mongoActive.Add(-1)
	case event.GetSucceeded:
		mongoInUse.Add(1)
	case event.ConnectionReturned:
		mongoInUse.Add(-1)
	default:
		return
	}
	mongoLastEvent.Store(time.Now().UnixNano())
	MongoPoolConnections.WithLabelValues("open").Set(float64(mongoActive.Load()))
	MongoPoolConnections.WithLabelValues("in_use").Set(float64(mongoInUse.Load()))
}

func GetMongoMetrics() MongoMetrics {
	m := MongoMetrics{
		ActiveConnections:  mongoActive.Load(),
		CreatedConnections: mongoCreated.Load(),
		ClosedConnections:  mongoClosed.Load(),
		CheckedOut:         mongoInUse.Load(),
	}
	if ns := mongoLastEvent.Load(); ns != 0 {
		m.LastEventAt = time.Unix(0, ns)
	}
	return m
}
