package guardpay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/karim-saleh/guardpay/config"
	"github.com/karim-saleh/guardpay/internal/notification"
	"github.com/karim-saleh/guardpay/internal/request"
	"github.com/karim-saleh/guardpay/model"
)

// NewWebhook is the envelope delivered to the configured webhook endpoint.
type NewWebhook struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"data"`
}

// SendWebhook delivers one webhook notification over HTTP, retrying with
// exponential backoff. Exhausted retries are reported through the error
// notification channel rather than returned to the event source.
func SendWebhook(data NewWebhook) error {
	conf, err := config.Fetch()
	if err != nil {
		return err
	}
	if conf.Notification.Webhook.Url == "" {
		return nil
	}

	deliver := func() error {
		payload, err := request.ToJsonReq(&data)
		if err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequest(http.MethodPost, conf.Notification.Webhook.Url, payload)
		if err != nil {
			return backoff.Permanent(err)
		}
		for key, value := range conf.Notification.Webhook.Headers {
			req.Header.Set(key, value)
		}

		resp, err := request.Call(req, nil)
		if err != nil {
			return err
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("webhook %s rejected with status %d", data.Event, resp.StatusCode)
		}
		return nil
	}

	err = backoff.Retry(deliver, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3))
	if err != nil {
		notification.NotifyError(err)
		return err
	}
	logrus.Infof("webhook %s delivered", data.Event)
	return nil
}

// postEvent emits a webhook for a domain event. With a queue configured the
// delivery is enqueued for the worker; otherwise it is sent inline on a
// goroutine so callers never block on the endpoint.
func (g *Guardpay) postEvent(event string, payload interface{}) {
	conf, err := config.Fetch()
	if err != nil || conf.Notification.Webhook.Url == "" {
		return
	}

	data := NewWebhook{Event: event, Payload: payload}
	if g.queue != nil {
		if err := g.queue.EnqueueWebhook(data); err != nil {
			logrus.Errorf("failed to enqueue webhook %s: %v", event, err)
		}
		return
	}
	go func() {
		if err := SendWebhook(data); err != nil {
			logrus.Errorf("failed to deliver webhook %s: %v", event, err)
		}
	}()
}

// ProcessWebhook handles a queued webhook delivery task.
func ProcessWebhook(_ context.Context, task *asynq.Task) error {
	var payload NewWebhook
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logrus.Errorf("error unmarshaling webhook task payload: %v", err)
		return err
	}
	return SendWebhook(payload)
}

// WebhookListener forwards transaction outcomes to the webhook endpoint.
type WebhookListener struct {
	service *Guardpay
}

func (w *WebhookListener) OnTransactionCompleted(transaction model.Transaction) {
	w.service.postEvent("transaction.applied", transaction)
}

func (w *WebhookListener) OnTransactionFailed(transaction model.Transaction, _ string) {
	w.service.postEvent("transaction.failed", transaction)
}
