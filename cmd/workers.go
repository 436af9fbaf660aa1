package main

import (
	"log"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/karim-saleh/guardpay"
)

// workerCommands returns the Cobra command that starts the asynq worker
// consuming queued webhook deliveries. It requires a configured Redis
// instance.
func workerCommands(g *guardpayInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start guardpay workers",
		Run: func(cmd *cobra.Command, args []string) {
			if g.cnf.Redis.Dns == "" {
				log.Fatal("workers need a configured redis instance")
			}

			queueOptions := asynq.RedisClientOpt{Addr: g.cnf.Redis.Dns}
			server := asynq.NewServer(queueOptions, asynq.Config{
				Concurrency: 5,
				Queues: map[string]int{
					guardpay.WebhookQueue: 3,
				},
			})

			mux := asynq.NewServeMux()
			mux.HandleFunc(guardpay.WebhookQueue, guardpay.ProcessWebhook)

			log.Println(" [*] Starting webhook workers")
			if err := server.Run(mux); err != nil {
				log.Fatal(err)
			}
		},
	}

	return cmd
}
