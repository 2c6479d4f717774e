package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/salesmate/pkg/models"
	"go.uber.org/zap"
)

// Dispatcher runs deliveries on a dedicated actor so SMTP latency stays off
// the purchase goroutine. The caller still awaits the result: the outcome
// message must report whether the receipt actually went out.
type Dispatcher struct {
	system  *actor.ActorSystem
	pid     *actor.PID
	timeout time.Duration
}

type deliver struct {
	Address string
	Order   *models.Order
}

type delivered struct {
	Err error
}

type deliveryActor struct {
	notifier Notifier
	logger   *zap.Logger
}

func (a *deliveryActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *deliver:
		a.logger.Info("Delivering receipt",
			zap.String("recipient", msg.Address),
			zap.String("order_id", msg.Order.ID))
		err := a.notifier.Send(context.Background(), msg.Address, msg.Order)
		ctx.Respond(&delivered{Err: err})

	case *actor.Started:
		a.logger.Info("Notification actor started")

	case *actor.Stopped:
		a.logger.Info("Notification actor stopped")
	}
}

// NewDispatcher spawns the notification actor around the given notifier.
func NewDispatcher(notifier Notifier, timeout time.Duration, logger *zap.Logger) (*Dispatcher, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return &deliveryActor{notifier: notifier, logger: logger.Named("notification-actor")}
	})
	pid, err := system.Root.SpawnNamed(props, "notification-actor")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn notification actor: %w", err)
	}

	return &Dispatcher{system: system, pid: pid, timeout: timeout}, nil
}

func (d *Dispatcher) Send(ctx context.Context, address string, order *models.Order) error {
	future := d.system.Root.RequestFuture(d.pid, &deliver{Address: address, Order: order}, d.timeout)
	result, err := future.Result()
	if err != nil {
		return fmt.Errorf("notification dispatch: %w", err)
	}
	resp, ok := result.(*delivered)
	if !ok {
		return fmt.Errorf("notification dispatch: unexpected response %T", result)
	}
	return resp.Err
}

// Shutdown stops the actor system, letting an in-flight delivery finish.
func (d *Dispatcher) Shutdown() {
	d.system.Root.StopFuture(d.pid).Wait()
	d.system.Shutdown()
}
