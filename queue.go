package guardpay

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/karim-saleh/guardpay/config"
)

const WebhookQueue = "webhooks"

// Queue hands webhook deliveries off to asynq workers.
type Queue struct {
	Client *asynq.Client
}

func NewQueue(conf *config.Configuration) *Queue {
	queueOptions := asynq.RedisClientOpt{Addr: conf.Redis.Dns}
	return &Queue{
		Client: asynq.NewClient(queueOptions),
	}
}

// EnqueueWebhook queues one webhook notification for asynchronous delivery.
func (q *Queue) EnqueueWebhook(webhook NewWebhook) error {
	payload, err := json.Marshal(webhook)
	if err != nil {
		return err
	}

	taskOptions := []asynq.Option{
		asynq.TaskID(uuid.New().String()),
		asynq.Queue(WebhookQueue),
		asynq.MaxRetry(5),
	}
	task := asynq.NewTask(WebhookQueue, payload, taskOptions...)
	info, err := q.Client.Enqueue(task)
	if err != nil {
		logrus.Error(err, info)
		return err
	}
	logrus.Infof("enqueued webhook %s as task %s", webhook.Event, info.ID)
	return nil
}
