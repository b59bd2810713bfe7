package receiver

import (
	"context"
	"testing"

	"github.com/dabreceiver/dabplus/internal/ensembledb"
	"github.com/dabreceiver/dabplus/internal/msc"
)

func newTestRepo(t *testing.T) *ensembledb.Repository {
	t.Helper()
	db, err := ensembledb.Open(nil, "")
	if err != nil {
		t.Fatalf("unexpected error opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return ensembledb.NewRepository(db)
}

func TestOnSubchannelBytesAccumulatesIntoSuperframes(t *testing.T) {
	s := newSubchannelState(1, ensembledb.SubchannelDescriptor{SubchannelID: 1, Length: 1})
	var fired int
	s.sf.OnFirecodeError = func() { fired++ }

	s.onSubchannelBytes(make([]byte, s.superframeLen-1), false)
	if fired != 0 {
		t.Fatalf("expected no superframe processed before the buffer fills")
	}
	s.onSubchannelBytes(make([]byte, 1), false)
	if fired != 1 {
		t.Fatalf("expected exactly one superframe attempt once the buffer fills, got %d fires", fired)
	}
}

func TestSelectAndDeselectSubchannelDoesNotPanic(t *testing.T) {
	repo := newTestRepo(t)
	r := New(repo, nil)
	r.Start(context.Background())
	defer r.Stop()

	sd := ensembledb.SubchannelDescriptor{SubchannelID: 3, Length: 4}
	r.SelectSubchannel(sd, msc.Controls{})
	r.DeselectSubchannel(3)
}

func TestProcessFICPublishesSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	r := New(repo, nil)

	var got bool
	r.OnEnsembleUpdate.Subscribe(func(*ensembledb.Snapshot) { got = true })

	punctured := make([]int8, 1)
	if err := r.ProcessFIC(punctured); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Fatalf("expected OnEnsembleUpdate to fire after ProcessFIC")
	}
}
