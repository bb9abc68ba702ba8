package core

import (
	"sync"
	"time"

	"seatrace/core/events"
	"seatrace/core/state"
	"seatrace/native/certify"
	"seatrace/native/fleet"
	"seatrace/native/processing"
	"seatrace/native/voyage"
	"seatrace/storage"
)

// eventBufferLimit bounds the in-memory activity feed served by the gateway.
const eventBufferLimit = 1024

// Node owns the shared state manager and the four ledger engines. All engines
// write through the same keyed record store but never read each other's
// records directly; cross-ledger checks flow through the narrow read
// interfaces wired here.
type Node struct {
	db         storage.Database
	state      *state.Manager
	emitter    *events.MemoryEmitter
	stateMu    sync.Mutex
	fleet      *fleet.Ledger
	voyage     *voyage.Ledger
	processing *processing.Ledger
	certify    *certify.Ledger
}

// NewNode constructs a node over the provided database and wires the ledger
// engines to a shared clock and event emitter.
func NewNode(db storage.Database) *Node {
	manager := state.NewManager(db)
	emitter := events.NewMemoryEmitter(eventBufferLimit)

	fleetLedger := fleet.NewLedger(manager)
	voyageLedger := voyage.NewLedger(manager, fleetLedger)
	processingLedger := processing.NewLedger(manager, voyageLedger)
	certifyLedger := certify.NewLedger(manager)

	node := &Node{
		db:         db,
		state:      manager,
		emitter:    emitter,
		fleet:      fleetLedger,
		voyage:     voyageLedger,
		processing: processingLedger,
		certify:    certifyLedger,
	}
	node.SetNowFunc(func() int64 { return time.Now().Unix() })
	for _, ledger := range []interface{ SetEmitter(events.Emitter) }{
		fleetLedger, voyageLedger, processingLedger, certifyLedger,
	} {
		ledger.SetEmitter(emitter)
	}
	return node
}

// SetNowFunc overrides the clock used by every ledger engine. Timestamps are
// assigned by the node, never taken from callers, so fixing the clock here
// makes the whole state transition deterministic.
func (n *Node) SetNowFunc(now func() int64) {
	n.fleet.SetNowFunc(now)
	n.voyage.SetNowFunc(now)
	n.processing.SetNowFunc(now)
	n.certify.SetNowFunc(now)
}

// LockState serializes a state transition. Engine operations are
// read-check-write sequences over the shared store and are only atomic while
// the lock is held; callers driving mutations concurrently must hold it for
// the duration of each call.
func (n *Node) LockState() { n.stateMu.Lock() }

// UnlockState releases the state transition lock.
func (n *Node) UnlockState() { n.stateMu.Unlock() }

// Fleet returns the vessel registry engine.
func (n *Node) Fleet() *fleet.Ledger { return n.fleet }

// Voyage returns the trip and catch engine.
func (n *Node) Voyage() *voyage.Ledger { return n.voyage }

// Processing returns the facility, batch and transfer engine.
func (n *Node) Processing() *processing.Ledger { return n.processing }

// Certify returns the standards and certification engine.
func (n *Node) Certify() *certify.Ledger { return n.certify }

// State returns the shared keyed record store.
func (n *Node) State() *state.Manager { return n.state }

// Events returns the buffered activity feed, newest entries last.
func (n *Node) Events() *events.MemoryEmitter { return n.emitter }

// Close releases the underlying database.
func (n *Node) Close() error {
	return n.db.Close()
}
