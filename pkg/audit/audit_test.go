package audit

import (
	"context"
	"sync"
	"testing"

	"github.com/example/storefront/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSink struct {
	mu   sync.Mutex
	logs []repository.AuditLog
}

func (f *fakeSink) CreateAuditLog(ctx context.Context, log *repository.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeSink) entries() []repository.AuditLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.AuditLog, len(f.logs))
	copy(out, f.logs)
	return out
}

func TestRecorder_DrainsEventsOnStop(t *testing.T) {
	sink := &fakeSink{}
	recorder := NewRecorder(sink, zap.NewNop())

	recorder.Record(&ProductAdded{ProductID: 1, Name: "soap", Category: "bathing"})
	recorder.Record(&OrderPlaced{OrderID: 7, ProductIDs: []int64{1, 2}})
	recorder.Stop()

	logs := sink.entries()
	require.Len(t, logs, 2)
	assert.Equal(t, "add_product", logs[0].Action)
	assert.EqualValues(t, 1, logs[0].EntityID)
	assert.Equal(t, "place_order", logs[1].Action)
	assert.EqualValues(t, 7, logs[1].EntityID)
}

func TestRecorder_NilIsSafe(t *testing.T) {
	var recorder *Recorder
	recorder.Record(&OrderPlaced{OrderID: 1})
	recorder.Stop()
}
