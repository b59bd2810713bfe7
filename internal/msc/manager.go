package msc

import (
	"context"
	"log"
	"sync"

	"github.com/dabreceiver/dabplus/internal/ensembledb"
)

// cifInput is one subchannel's CIF-slice work item, submitted from the
// frame ingest loop to that subchannel's own goroutine.
type cifInput struct {
	symbols []int8
}

// worker pairs a Pipeline with the goroutine and channel driving it.
// The context/WaitGroup/channel shape is grounded on
// cmd/ysf2dmr/main_goroutine.go's GoroutineGateway, generalized from a
// fixed pair of network-client processor goroutines to a dynamic set of
// one goroutine per selected subchannel.
type worker struct {
	pipeline *Pipeline
	input    chan cifInput
	cancel   context.CancelFunc
}

// Manager owns one Pipeline (and its goroutine) per selected
// subchannel, keyed by subchannel id.
type Manager struct {
	mu      sync.RWMutex
	workers map[uint8]*worker
	wg      sync.WaitGroup
	log     *log.Logger
}

// NewManager creates an empty subchannel manager.
func NewManager(l *log.Logger) *Manager {
	return &Manager{workers: make(map[uint8]*worker), log: l}
}

// Select creates (or reconfigures) the pipeline for a subchannel and
// starts its goroutine if not already running.
func (m *Manager) Select(ctx context.Context, sd ensembledb.SubchannelDescriptor, onBytes func(subchannelID uint8, data []byte, rsError bool)) *Pipeline {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w, ok := m.workers[sd.SubchannelID]; ok {
		w.pipeline.Reconfigure(sd)
		return w.pipeline
	}

	p := NewPipeline(sd, m.log)
	p.OnBytes = func(data []byte, rsError bool) {
		if onBytes != nil {
			onBytes(sd.SubchannelID, data, rsError)
		}
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w := &worker{pipeline: p, input: make(chan cifInput, 8), cancel: cancel}
	m.workers[sd.SubchannelID] = w

	m.wg.Add(1)
	go m.run(workerCtx, w)

	return p
}

func (m *Manager) run(ctx context.Context, w *worker) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-w.input:
			w.pipeline.UpdateState()
			w.pipeline.ProcessCIF(in.symbols)
		}
	}
}

// Deselect tears down a subchannel's pipeline and goroutine.
func (m *Manager) Deselect(subchannelID uint8) {
	m.mu.Lock()
	w, ok := m.workers[subchannelID]
	if ok {
		delete(m.workers, subchannelID)
	}
	m.mu.Unlock()
	if ok {
		w.cancel()
	}
}

// Dispatch submits one CIF's punctured soft symbols to a subchannel's
// worker, non-blocking: a full input channel means that subchannel is
// falling behind and this CIF is dropped rather than backing up the
// whole frame ingest loop.
func (m *Manager) Dispatch(subchannelID uint8, symbols []int8) {
	m.mu.RLock()
	w, ok := m.workers[subchannelID]
	m.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case w.input <- cifInput{symbols: symbols}:
	default:
		if m.log != nil {
			m.log.Printf("msc: dropping CIF for subchannel %d, worker busy", subchannelID)
		}
	}
}

// Controls returns the live Controls for a selected subchannel, or nil
// if it isn't selected.
func (m *Manager) Controls(subchannelID uint8) *Controls {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.workers[subchannelID]
	if !ok {
		return nil
	}
	return &w.pipeline.Controls
}

// Stop tears down every pipeline and waits for their goroutines to
// exit.
func (m *Manager) Stop() {
	m.mu.Lock()
	ids := make([]uint8, 0, len(m.workers))
	for id := range m.workers {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Deselect(id)
	}
	m.wg.Wait()
}
