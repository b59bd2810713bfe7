// Command dabreceiver ingests a synchronized DAB+ transmission frame
// stream (soft-decision bits, one byte per symbol) over TCP, decodes
// the FIC into a live ensemble catalogue, and decodes every configured
// subchannel into AAC audio, dynamic label text, and MOT slideshow
// images.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"image/png"

	"github.com/dabreceiver/dabplus/internal/config"
	"github.com/dabreceiver/dabplus/internal/dabparams"
	"github.com/dabreceiver/dabplus/internal/ensembledb"
	"github.com/dabreceiver/dabplus/internal/fic"
	"github.com/dabreceiver/dabplus/internal/mot"
	"github.com/dabreceiver/dabplus/internal/msc"
	"github.com/dabreceiver/dabplus/internal/receiver"
)

const version = "1.0.0"

const (
	banner1 = "dabreceiver - DAB+ receiver-side decoder"
	banner2 = "FIC ensemble catalogue, MSC subchannel audio, PAD/MOT extraction"
)

func getDefaultConfig() string {
	return "dabreceiver.ini"
}

func main() {
	var (
		configFile = flag.String("config", getDefaultConfig(), "Configuration file path")
		showVer    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVer {
		fmt.Printf("dabreceiver v%s\n", version)
		fmt.Println(banner1)
		fmt.Println(banner2)
		return
	}

	if flag.NArg() > 0 {
		*configFile = flag.Arg(0)
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("dabreceiver v%s starting with config: %s", version, *configFile)

	cfg := config.NewConfig(*configFile)
	if err := cfg.Load(); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	mode := dabparams.Mode(cfg.GetTransmissionMode())
	params, ok := dabparams.For(mode)
	if !ok {
		log.Fatalf("unsupported transmission mode: %d", cfg.GetTransmissionMode())
	}

	db, err := ensembledb.Open(log.New(os.Stdout, "[DB] ", log.LstdFlags), cfg.GetDatabasePath())
	if err != nil {
		log.Fatalf("failed to open ensemble database: %v", err)
	}
	defer db.Close()

	repo := ensembledb.NewRepository(db)

	g := newGateway(cfg, repo, params)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	if err := g.Run(ctx); err != nil {
		log.Fatalf("gateway error: %v", err)
	}

	log.Printf("dabreceiver stopped")
}

// gateway owns the Receiver and the TCP ingest loop feeding it, and
// subscribes to its observables to drive auto-selection, logging, and
// slideshow output. Shape mirrors
// cmd/ysf2dmr/main_goroutine.go's GoroutineGateway.
type gateway struct {
	cfg    *config.Config
	repo   *ensembledb.Repository
	params dabparams.Parameters
	recv   *receiver.Receiver

	audioWanted map[uint8]bool
	dataWanted  map[uint8]bool
	playWanted  map[uint8]bool
	selected    map[uint8]bool
}

func newGateway(cfg *config.Config, repo *ensembledb.Repository, params dabparams.Parameters) *gateway {
	g := &gateway{
		cfg:         cfg,
		repo:        repo,
		params:      params,
		recv:        receiver.New(repo, log.New(os.Stdout, "[RX] ", log.LstdFlags)),
		audioWanted: toSet(cfg.GetDecodeAudioSubchannels()),
		dataWanted:  toSet(cfg.GetDecodeDataSubchannels()),
		playWanted:  toSet(cfg.GetPlayAudioSubchannels()),
		selected:    make(map[uint8]bool),
	}
	g.wireObservables()
	return g
}

func toSet(ids []uint8) map[uint8]bool {
	m := make(map[uint8]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func (g *gateway) wantedSubchannels() map[uint8]bool {
	wanted := make(map[uint8]bool)
	for id := range g.audioWanted {
		wanted[id] = true
	}
	for id := range g.dataWanted {
		wanted[id] = true
	}
	for id := range g.playWanted {
		wanted[id] = true
	}
	return wanted
}

func (g *gateway) wireObservables() {
	g.recv.OnEnsembleUpdate.Subscribe(func(snap *ensembledb.Snapshot) {
		g.selectConfiguredSubchannels(snap)
	})

	g.recv.OnError.Subscribe(func(e receiver.ErrorEvent) {
		log.Printf("error: kind=%d subchannel=%d detail=%s", e.Kind, e.SubchannelID, e.Detail)
	})

	g.recv.OnDynamicLabel.Subscribe(func(e receiver.LabelEvent) {
		log.Printf("dynamic label [subchannel %d]: %s", e.SubchannelID, e.Text)
	})

	g.recv.OnMOTEntity.Subscribe(func(e mot.Entity) {
		log.Printf("MOT entity: transport=%d name=%s size=%d", e.TransportID, e.Header.Name, len(e.Body))
	})

	g.recv.OnSlideshow.Subscribe(func(sh mot.Slideshow) {
		if err := g.saveSlideshow(sh); err != nil {
			log.Printf("slideshow save failed: %v", err)
		}
	})

	g.recv.OnDateTime.Subscribe(func(dt fic.DateTime) {
		log.Printf("date/time: MJD=%d %02d:%02d:%02d.%03d UTC=%v",
			dt.MJD, dt.Hours, dt.Minutes, dt.Seconds, dt.Milliseconds, dt.UTC)
	})

	g.recv.OnAudio.Subscribe(func(e receiver.AudioEvent) {
		if !g.playWanted[e.SubchannelID] {
			return
		}
		log.Printf("audio [subchannel %d]: %d Hz, %d ch, %d bytes PCM",
			e.SubchannelID, e.SampleRate, e.Channels, len(e.PCM))
	})
}

// selectConfiguredSubchannels selects every configured subchannel that
// has appeared in the ensemble catalogue and isn't selected yet.
func (g *gateway) selectConfiguredSubchannels(snap *ensembledb.Snapshot) {
	wanted := g.wantedSubchannels()
	for _, sd := range snap.Subchans {
		if !wanted[sd.SubchannelID] || g.selected[sd.SubchannelID] {
			continue
		}
		var controls msc.Controls
		controls.SetDecodeAudio(g.audioWanted[sd.SubchannelID])
		controls.SetDecodeData(g.dataWanted[sd.SubchannelID])
		controls.SetPlayAudio(g.playWanted[sd.SubchannelID])

		g.recv.SelectSubchannel(sd, controls)
		g.selected[sd.SubchannelID] = true
		log.Printf("selected subchannel %d (audio=%v data=%v play=%v)",
			sd.SubchannelID, controls.DecodeAudio, controls.DecodeData, controls.PlayAudio)
	}
}

func (g *gateway) saveSlideshow(sh mot.Slideshow) error {
	dir := g.cfg.GetSlideshowDirectory()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir slideshow dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.png", sh.ID))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create slideshow file: %w", err)
	}
	defer f.Close()
	return png.Encode(f, sh.Image)
}

// Run dials the ingest address, starts the receiver, and feeds
// transmission frames to it until ctx is cancelled.
func (g *gateway) Run(ctx context.Context) error {
	g.recv.Start(ctx)
	defer g.recv.Stop()

	conn, err := net.Dial("tcp", g.cfg.GetIngestAddress())
	if err != nil {
		return fmt.Errorf("dial ingest address %s: %w", g.cfg.GetIngestAddress(), err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	return g.ingestLoop(bufio.NewReader(conn))
}

// ingestLoop reads fixed-size transmission frames (FIC span followed
// by MSC span, one byte per soft-decision symbol, per spec.md §6) and
// dispatches them to the receiver, one CIF at a time per spec.md §5's
// parallel-thread decomposition.
func (g *gateway) ingestLoop(r *bufio.Reader) error {
	ficBuf := make([]byte, g.params.NbFicBits)
	mscBuf := make([]byte, g.params.NbMscBits)

	for {
		if _, err := io.ReadFull(r, ficBuf); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read FIC span: %w", err)
		}
		if _, err := io.ReadFull(r, mscBuf); err != nil {
			return fmt.Errorf("read MSC span: %w", err)
		}

		if err := g.recv.ProcessFIC(toInt8(ficBuf)); err != nil {
			log.Printf("ProcessFIC: %v", err)
		}

		g.dispatchMSC(mscBuf)
	}
}

// dispatchMSC splits one frame's MSC span into its CIFs and, for each
// CIF, hands every selected subchannel its own capacity-unit slice.
func (g *gateway) dispatchMSC(mscBuf []byte) {
	if g.params.NbCifs == 0 || g.params.NbCifBits == 0 {
		return
	}
	for c := 0; c < g.params.NbCifs; c++ {
		start := c * g.params.NbCifBits
		end := start + g.params.NbCifBits
		if end > len(mscBuf) {
			return
		}
		cif := toInt8(mscBuf[start:end])
		g.recv.ProcessMSC(cif, func(subchannelID uint8) []int8 {
			return g.subchannelSlice(subchannelID, cif)
		})
	}
}

// subchannelSlice returns one subchannel's capacity-unit span within a
// single CIF, per its descriptor's StartAddress/Length (in 64-bit
// capacity units, spec.md §3).
func (g *gateway) subchannelSlice(subchannelID uint8, cif []int8) []int8 {
	sd, err := g.repo.GetSubchannel(subchannelID)
	if err != nil {
		return nil
	}
	const capacityUnitBits = 64
	start := int(sd.StartAddress) * capacityUnitBits
	length := int(sd.Length) * capacityUnitBits
	if start < 0 || start+length > len(cif) {
		return nil
	}
	return cif[start : start+length]
}

func toInt8(b []byte) []int8 {
	out := make([]int8, len(b))
	for i, v := range b {
		out[i] = int8(v)
	}
	return out
}
