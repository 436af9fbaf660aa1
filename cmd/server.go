package main

import (
	"context"
	"log"
	"net/http"

	"github.com/caddyserver/certmagic"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/karim-saleh/guardpay/api"
	"github.com/karim-saleh/guardpay/config"
)

// serveTLS starts an HTTPS server with automatic certificate management via
// CertMagic. Without a configured domain it falls back to localhost.
func serveTLS(r *gin.Engine, conf config.ServerConfig) error {
	certmagic.DefaultACME.Agreed = true
	certmagic.DefaultACME.Email = conf.Email
	cfg := certmagic.NewDefault()
	cfg.Storage = &certmagic.FileStorage{Path: "path/to/certmagic/storage"}

	domains := []string{conf.Domain}
	if conf.Domain == "" {
		log.Println("No domain specified, defaulting to localhost")
		domains = []string{"localhost"}
	}

	if err := cfg.ManageSync(context.Background(), domains); err != nil {
		return err
	}

	server := &http.Server{
		Addr:      ":" + conf.Port,
		Handler:   r,
		TLSConfig: cfg.TLSConfig(),
	}

	log.Printf("Starting HTTPS server on %s\n", conf.Port)
	if err := server.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start HTTPS server: %v", err)
	}

	return nil
}

func initializeRouter(g *guardpayInstance) *gin.Engine {
	return api.NewAPI(g.service).Router()
}

func startServer(router *gin.Engine, cfg config.ServerConfig) error {
	if cfg.SSL {
		return serveTLS(router, cfg)
	}
	log.Printf("Starting server on http://localhost:%s", cfg.Port)
	return router.Run(":" + cfg.Port)
}

// serverCommands returns the Cobra command that starts the HTTP server.
func serverCommands(g *guardpayInstance) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "start guardpay server",
		Run: func(cmd *cobra.Command, args []string) {
			if seed {
				if err := seedDemoAccounts(g.service); err != nil {
					log.Fatal(err)
				}
			}

			router := initializeRouter(g)

			if err := startServer(router, g.cnf.Server); err != nil {
				log.Fatal(err)
			}
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "register demo wallet accounts at startup")

	return cmd
}
