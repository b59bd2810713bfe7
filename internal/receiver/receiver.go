// Package receiver wires the FIC parser, MSC subchannel manager,
// per-subchannel superframe/PAD/MOT processors, and the AAC decoder
// adapter into the single ingest surface spec.md §6 describes:
// ProcessFIC(span) / ProcessMSC(span) in, OnEnsembleUpdate / OnAudio /
// OnDynamicLabel / OnMOTEntity / OnSlideshow / OnError out.
//
// The goroutine/channel/WaitGroup/cancel shape mirrors
// cmd/ysf2dmr/main_goroutine.go's GoroutineGateway, generalized from a
// fixed pair of network-client goroutines to a dynamic per-subchannel
// worker set (owned one level down, in internal/msc.Manager). No FIC
// goroutine is started: ProcessFIC decodes on the caller's goroutine.
package receiver

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/dabreceiver/dabplus/internal/ensembledb"
	"github.com/dabreceiver/dabplus/internal/fic"
	"github.com/dabreceiver/dabplus/internal/mot"
	"github.com/dabreceiver/dabplus/internal/msc"
	"github.com/dabreceiver/dabplus/internal/observable"
)

// ErrorKind classifies an OnError event, per spec.md §7.
type ErrorKind int

const (
	ErrorFirecode ErrorKind = iota
	ErrorRS
	ErrorAUCRC
	ErrorViterbiPathSpike
	ErrorAACResource
)

// ErrorEvent is the payload of OnError.
type ErrorEvent struct {
	Kind          ErrorKind
	SubchannelID  uint8
	Detail        string
}

// AudioEvent is the payload of OnAudio.
type AudioEvent struct {
	SubchannelID   uint8
	SampleRate     int
	Channels       int
	BytesPerSample int
	PCM            []byte
}

// LabelEvent is the payload of OnDynamicLabel.
type LabelEvent struct {
	SubchannelID uint8
	Text         string
	CharsetID    byte
}

// Receiver is the top-level decode pipeline.
type Receiver struct {
	repo *ensembledb.Repository
	fic  *fic.Processor
	msc  *msc.Manager
	log  *log.Logger

	mu          sync.Mutex
	subchannels map[uint8]*subchannelState

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	OnEnsembleUpdate *observable.Observable[*ensembledb.Snapshot]
	OnAudio          *observable.Observable[AudioEvent]
	OnDynamicLabel   *observable.Observable[LabelEvent]
	OnMOTEntity      *observable.Observable[mot.Entity]
	OnSlideshow      *observable.Observable[mot.Slideshow]
	OnError          *observable.Observable[ErrorEvent]
	OnDateTime       *observable.Observable[fic.DateTime]
}

// New constructs a Receiver bound to repo (the ensemble database) and
// logging via l.
func New(repo *ensembledb.Repository, l *log.Logger) *Receiver {
	r := &Receiver{
		repo:        repo,
		msc:         msc.NewManager(l),
		log:         l,
		subchannels: make(map[uint8]*subchannelState),

		OnEnsembleUpdate: observable.New[*ensembledb.Snapshot](),
		OnAudio:          observable.New[AudioEvent](),
		OnDynamicLabel:   observable.New[LabelEvent](),
		OnMOTEntity:      observable.New[mot.Entity](),
		OnSlideshow:      observable.New[mot.Slideshow](),
		OnError:          observable.New[ErrorEvent](),
		OnDateTime:       observable.New[fic.DateTime](),
	}

	r.fic = fic.New(repo, l)
	r.fic.OnSoftError = func(reason string) {
		r.OnError.Publish(ErrorEvent{Kind: ErrorFirecode, Detail: reason})
	}
	r.fic.OnReconfigure = func(int) {
		r.publishSnapshot()
	}
	r.fic.OnDateTime = func(dt fic.DateTime) {
		r.OnDateTime.Publish(dt)
	}

	return r
}

// Start derives the context that subchannel workers selected afterwards
// run under; it starts no goroutine itself. Cancelling ctx or calling
// Stop() ends those workers.
func (r *Receiver) Start(ctx context.Context) {
	r.ctx, r.cancel = context.WithCancel(ctx)
}

// Stop cancels every subchannel worker and waits for shutdown.
func (r *Receiver) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.msc.Stop()
	r.wg.Wait()
}

// ProcessFIC decodes one transmission frame's FIC span.
func (r *Receiver) ProcessFIC(span []int8) error {
	if len(span) == 0 {
		return fmt.Errorf("receiver: empty FIC span")
	}
	r.fic.ProcessFrame(span)
	r.publishSnapshot()
	return nil
}

// ProcessMSC dispatches one CIF's MSC span to every
// currently selected subchannel's CIF slice, per spec.md §6.
func (r *Receiver) ProcessMSC(span []int8, sliceFor func(subchannelID uint8) []int8) {
	r.mu.Lock()
	ids := make([]uint8, 0, len(r.subchannels))
	for id := range r.subchannels {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		slice := span
		if sliceFor != nil {
			slice = sliceFor(id)
		}
		r.msc.Dispatch(id, slice)
	}
}

func (r *Receiver) publishSnapshot() {
	snap, err := r.repo.TakeSnapshot()
	if err != nil {
		if r.log != nil {
			r.log.Printf("receiver: snapshot failed: %v", err)
		}
		return
	}
	r.OnEnsembleUpdate.Publish(snap)
}
