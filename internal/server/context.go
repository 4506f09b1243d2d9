// Package server implements the process-wide ServerContext and the
// Listener that accepts sockets and spawns a connection task per client,
// per §4.7/§4.8.
package server

import (
	"hash/fnv"
	"net"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"mcserverd/internal/config"
	"mcserverd/internal/cryptoengine"
	"mcserverd/internal/session"
)

const clientShardCount = 16

// clientShard is one lock-guarded bucket of the sharded clients map. §5
// calls out the clients map as the only frequently-mutated shared
// structure and recommends a sharded concurrent map; FNV-hashing the peer
// address string into one of a fixed number of independently-locked
// buckets keeps join/leave traffic on one connection from contending with
// lookups touching a different shard.
type clientShard struct {
	mu      sync.RWMutex
	clients map[string]*session.Outbox
}

// ServerContext is the process-wide state described in §4.8: configuration,
// the server's RSA keypair, the connected-clients registry, and the
// atomic entity id counter. It is constructed once at listener start and
// lives until the listener exits.
type ServerContext struct {
	Config *config.ServerConfig
	Keys   *cryptoengine.KeyPair
	Logger *zap.Logger

	entityIDCounter atomic.Int32
	shards          [clientShardCount]*clientShard
}

// NewServerContext builds a ServerContext with an empty clients registry.
func NewServerContext(cfg *config.ServerConfig, keys *cryptoengine.KeyPair, logger *zap.Logger) *ServerContext {
	sc := &ServerContext{Config: cfg, Keys: keys, Logger: logger}
	for i := range sc.shards {
		sc.shards[i] = &clientShard{clients: make(map[string]*session.Outbox)}
	}
	return sc
}

func (sc *ServerContext) shardFor(key string) *clientShard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return sc.shards[h.Sum32()%clientShardCount]
}

// NextEntityID returns the next unique entity id via atomic fetch-and-add,
// per §4.8.
func (sc *ServerContext) NextEntityID() int32 {
	return sc.entityIDCounter.Inc()
}

// PlayerJoined registers a connected peer's outbox under fine-grained
// locking, so a future broadcast (e.g. chat, keep-alive) could reach every
// connected client without routing through the Dispatcher.
func (sc *ServerContext) PlayerJoined(addr net.Addr, outbox *session.Outbox) {
	shard := sc.shardFor(addr.String())
	shard.mu.Lock()
	defer shard.mu.Unlock()
	shard.clients[addr.String()] = outbox
}

// PlayerLeft deregisters a peer, called once the connection task
// terminates for any reason.
func (sc *ServerContext) PlayerLeft(addr net.Addr) {
	shard := sc.shardFor(addr.String())
	shard.mu.Lock()
	defer shard.mu.Unlock()
	delete(shard.clients, addr.String())
}

// ConnectedCount reports the number of currently registered clients,
// summed across shards; used for the Status response's online count.
func (sc *ServerContext) ConnectedCount() int {
	total := 0
	for _, shard := range sc.shards {
		shard.mu.RLock()
		total += len(shard.clients)
		shard.mu.RUnlock()
	}
	return total
}
