package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/event"
)

func TestPoolMonitor(t *testing.T) {
	before := GetMongoMetrics()
	monitor := PoolMonitor()

	monitor.Event(&event.PoolEvent{Type: event.ConnectionCreated})
	monitor.Event(&event.PoolEvent{Type: event.ConnectionCreated})
	monitor.Event(&event.PoolEvent{Type: event.GetSucceeded})
	monitor.Event(&event.PoolEvent{Type: event.ConnectionReturned})
	monitor.Event(&event.PoolEvent{Type: event.ConnectionClosed})
	monitor.Event(&event.PoolEvent{Type: event.PoolReady})

	after := GetMongoMetrics()
	assert.Equal(t, before.ActiveConnections+1, after.ActiveConnections)
	assert.Equal(t, before.CreatedConnections+2, after.CreatedConnections)
	assert.Equal(t, before.ClosedConnections+1, after.ClosedConnections)
	assert.Equal(t, before.CheckedOut, after.CheckedOut)
	assert.False(t, after.LastEventAt.IsZero())
}
