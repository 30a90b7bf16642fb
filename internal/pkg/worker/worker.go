package worker

import (
	"context"
	"log"
	"time"

	"villfresh_store/internal/domain/order/repository"
	"villfresh_store/internal/pkg/mailer"
)

// EmailTask asks a worker to send the confirmation mail for one order.
type EmailTask struct {
	OrderID   string
	Recipient string
	Retry     int
}

// NotificationPool delivers order-confirmation email off the request
// path. Checkout and webhook handlers only enqueue; delivery failures are
// retried here and never propagate back.
type NotificationPool struct {
	TaskQueue  chan EmailTask
	RetryQueue chan EmailTask
	Repo       repository.OrderRepository
	Mailer     mailer.Service
	WorkerNum  int
	MaxRetry   int
}

func NewNotificationPool(repo repository.OrderRepository, m mailer.Service, workerNum int, bufferSize int) *NotificationPool {
	return &NotificationPool{
		TaskQueue:  make(chan EmailTask, bufferSize),
		RetryQueue: make(chan EmailTask, bufferSize/2),
		Repo:       repo,
		Mailer:     m,
		WorkerNum:  workerNum,
		MaxRetry:   3,
	}
}

func (p *NotificationPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		go p.worker(i)
	}
	go p.retryWorker()
	log.Printf("Notification pool started with %d workers", p.WorkerNum)
}

func (p *NotificationPool) worker(id int) {
	for task := range p.TaskQueue {
		if err := p.processTask(task); err != nil {
			log.Printf("[Worker %d] Failed to send confirmation for order %s: %v", id, task.OrderID, err)

			if task.Retry < p.MaxRetry {
				task.Retry++
				select {
				case p.RetryQueue <- task:
				default:
					log.Printf("[Worker %d] Retry queue full, task dropped: order %s", id, task.OrderID)
				}
			} else {
				log.Printf("[Worker %d] Task exceeded max retries, dropped: order %s", id, task.OrderID)
			}
		}
	}
}

func (p *NotificationPool) retryWorker() {
	for task := range p.RetryQueue {
		// linear backoff before re-queueing
		time.Sleep(time.Duration(task.Retry) * time.Second)

		select {
		case p.TaskQueue <- task:
		default:
			log.Printf("[RetryWorker] Main queue full, task dropped: order %s", task.OrderID)
		}
	}
}

func (p *NotificationPool) processTask(task EmailTask) error {
	order, err := p.Repo.GetByID(task.OrderID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return p.Mailer.Send(ctx, BuildOrderConfirmation(order, task.Recipient))
}

// EnqueueConfirmation schedules the confirmation mail for an order.
// Never blocks: a full queue drops the task with a log line.
func (p *NotificationPool) EnqueueConfirmation(orderID, recipient string) {
	if recipient == "" {
		return
	}
	task := EmailTask{OrderID: orderID, Recipient: recipient}
	select {
	case p.TaskQueue <- task:
	default:
		log.Printf("Notification queue full, dropping task: order %s", orderID)
	}
}
