package main

import (
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/karim-saleh/guardpay"
	"github.com/karim-saleh/guardpay/config"
	"github.com/karim-saleh/guardpay/internal/notification"
	"github.com/karim-saleh/guardpay/model"
)

// Guardpay represents the CLI application, encapsulating the root Cobra
// command.
type Guardpay struct {
	cmd *cobra.Command
}

// guardpayInstance holds the runtime service instance and its configuration,
// shared by every subcommand.
type guardpayInstance struct {
	service *guardpay.Guardpay
	cnf     *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and initializes the service instance before
// any command runs.
func preRun(app *guardpayInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("guardpay.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		service, err := guardpay.NewGuardpay()
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.service = service
		app.cnf = cnf

		return nil
	}
}

// seedDemoAccounts registers a pair of wallets so a fresh instance has
// something to transact with.
func seedDemoAccounts(service *guardpay.Guardpay) error {
	accounts := []model.Account{
		{
			Address: model.GenerateWalletAddress(),
			Name:    "Karim Basic",
			Balance: decimal.NewFromInt(600),
			Tier:    model.TierBasic,
		},
		{
			Address: model.GenerateWalletAddress(),
			Name:    "Karim Premium",
			Balance: decimal.NewFromInt(15000),
			Tier:    model.TierPremium,
		},
	}
	for _, account := range accounts {
		registered, err := service.Accounts().Register(account)
		if err != nil {
			return err
		}
		log.Printf(" [*] Seeded account %s (%s)", registered.Name, registered.Address)
	}
	return nil
}

// NewCLI creates the command-line interface for the application. It sets up
// the root command and the server and worker subcommands.
func NewCLI() *Guardpay {
	var configFile string
	g := &guardpayInstance{}

	var rootCmd = &cobra.Command{
		Use:   "guardpay",
		Short: "Guardian-protected wallet ledger",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./guardpay.json", "Configuration file for guardpay")

	rootCmd.PersistentPreRunE = preRun(g)

	rootCmd.AddCommand(serverCommands(g))
	rootCmd.AddCommand(workerCommands(g))

	return &Guardpay{cmd: rootCmd}
}

func (w Guardpay) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
