package audit

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/storefront/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Sink receives finished audit entries. *repository.MongoRepository
// satisfies it.
type Sink interface {
	CreateAuditLog(ctx context.Context, log *repository.AuditLog) error
}

// OrderPlaced is sent after an order commits.
type OrderPlaced struct {
	OrderID    int64
	ProductIDs []int64
}

// ProductAdded is sent after a product is created.
type ProductAdded struct {
	ProductID int64
	Name      string
	Category  string
}

// auditActor drains audit events to the sink off the request path.
type auditActor struct {
	sink   Sink
	logger *zap.Logger
}

func (a *auditActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *OrderPlaced:
		a.write(&repository.AuditLog{
			Action:   "place_order",
			EntityID: msg.OrderID,
			Data:     bson.M{"product_ids": msg.ProductIDs},
		})

	case *ProductAdded:
		a.write(&repository.AuditLog{
			Action:   "add_product",
			EntityID: msg.ProductID,
			Data:     bson.M{"name": msg.Name, "category": msg.Category},
		})

	case *actor.Started:
		a.logger.Info("Audit actor started")

	case *actor.Stopping:
		a.logger.Info("Audit actor stopping")

	case *actor.Stopped:
		a.logger.Info("Audit actor stopped")
	}
}

func (a *auditActor) write(log *repository.AuditLog) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.sink.CreateAuditLog(ctx, log); err != nil {
		a.logger.Warn("Failed to write audit log",
			zap.String("action", log.Action),
			zap.Int64("entity_id", log.EntityID),
			zap.Error(err))
	}
}

// Recorder is the handle the rest of the service uses to emit audit
// events. Sends never block on the sink.
type Recorder struct {
	system *actor.ActorSystem
	pid    *actor.PID
}

func NewRecorder(sink Sink, logger *zap.Logger) *Recorder {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return &auditActor{sink: sink, logger: logger}
	})
	pid := system.Root.Spawn(props)

	return &Recorder{system: system, pid: pid}
}

// Record enqueues an event. A nil Recorder drops it, so auditing can be
// left unwired in tests.
func (r *Recorder) Record(event interface{}) {
	if r == nil {
		return
	}
	r.system.Root.Send(r.pid, event)
}

// Stop drains queued events, then stops the actor. Poison rather than
// Stop so events already sent still reach the sink.
func (r *Recorder) Stop() {
	if r == nil {
		return
	}
	_ = r.system.Root.PoisonFuture(r.pid).Wait()
}
