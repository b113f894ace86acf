package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"bytebank/internal/client"
	"bytebank/internal/infrastructure/firebase"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "bytebank",
		Short:        "Command-line client for the ByteBank transactions API",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.AddCommand(
		newRegisterCommand(),
		newLoginCommand(),
		newListCommand(),
		newBalancesCommand(),
		newAddCommand(),
		newDeleteCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiBaseURL() string {
	if url := os.Getenv("BYTEBANK_API"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

// newAPI builds an authenticated API from the environment.
func newAPI() (*client.API, error) {
	token := os.Getenv("BYTEBANK_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BYTEBANK_TOKEN is not set; run `bytebank login` first")
	}
	api := client.NewAPI(apiBaseURL(), nil)
	api.SetToken(token)
	return api, nil
}

// newBlobStorage builds the attachment store when Firebase is configured.
// Returns nil without error when it is not; commands degrade accordingly.
func newBlobStorage(ctx context.Context) (client.BlobStorage, error) {
	credentials := os.Getenv("FIREBASE_CREDENTIALS_FILE")
	bucket := os.Getenv("FIREBASE_STORAGE_BUCKET")
	if credentials == "" || bucket == "" {
		return nil, nil
	}
	return firebase.NewStorage(ctx, credentials, bucket)
}

func newRegisterCommand() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.NewAPI(apiBaseURL(), nil)
			created, err := api.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Usuário criado: %s <%s>\n", created.Name, created.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name (required)")
	cmd.Flags().StringVar(&email, "email", "", "e-mail address (required)")
	cmd.Flags().StringVar(&password, "password", "", "password (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLoginCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			api := client.NewAPI(apiBaseURL(), nil)
			session, err := api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("export BYTEBANK_TOKEN=%s\n", session.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "e-mail address (required)")
	cmd.Flags().StringVar(&password, "password", "", "password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newListCommand() *cobra.Command {
	var filterType, period, search string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPI()
			if err != nil {
				return err
			}

			transactions, err := api.ListTransactions(cmd.Context())
			if err != nil {
				return err
			}

			if !all {
				filter := client.Filter{Type: filterType, Period: period, Search: search}
				transactions = filter.Apply(transactions, time.Now())
			}

			if len(transactions) == 0 {
				fmt.Println("Nenhuma transação encontrada.")
				return nil
			}

			for _, t := range transactions {
				description := ""
				if t.Description != nil {
					description = *t.Description
				}
				fmt.Printf("%-6d %s  %-14s %-14s R$ %10s  %s\n",
					t.ID,
					t.TransactionDate.Format("2006-01-02"),
					t.TransactionType,
					t.AccountType,
					client.FormatAmount(t.Amount),
					description,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filterType, "type", client.FilterAll, "transaction type filter (todos, deposito, transferencia)")
	cmd.Flags().StringVar(&period, "period", client.FilterAll, "period filter (todos, hoje, ultimos7, ultimos30)")
	cmd.Flags().StringVar(&search, "search", "", "match description text or an exact amount like 50,00")
	cmd.Flags().BoolVar(&all, "all", false, "skip filtering entirely, include undated rows")

	return cmd
}

func newBalancesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show the balance of each account",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPI()
			if err != nil {
				return err
			}

			balances, err := api.Balances(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("conta-corrente: R$ %s\n", client.FormatAmount(balances.ContaCorrente))
			fmt.Printf("poupanca:       R$ %s\n", client.FormatAmount(balances.Poupanca))
			return nil
		},
	}
}

func newAddCommand() *cobra.Command {
	var accountType, transactionType, amount, description, imagePath, attachmentURL string
	var id int64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a transaction, or edit one with --id",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPI()
			if err != nil {
				return err
			}

			storage, err := newBlobStorage(cmd.Context())
			if err != nil {
				return err
			}
			if imagePath != "" && storage == nil {
				return fmt.Errorf("uploading an image requires FIREBASE_CREDENTIALS_FILE and FIREBASE_STORAGE_BUCKET")
			}

			form := client.NewForm()
			form.ID = id
			form.AccountType = accountType
			form.TransactionType = transactionType
			form.Amount = amount
			form.Description = description
			form.AttachmentURL = attachmentURL

			if imagePath != "" {
				image, err := os.Open(imagePath)
				if err != nil {
					return err
				}
				defer image.Close()
				form.Image = image
			}

			session := client.NewSession(api, nil)
			saved, err := form.Submit(cmd.Context(), session, storage)
			if err != nil {
				return err
			}

			fmt.Printf("Transação %d salva: %s R$ %s\n", saved.ID, saved.TransactionType, client.FormatAmount(saved.Amount))
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "transaction to edit; omit to create")
	cmd.Flags().StringVar(&accountType, "account-type", "conta-corrente", "account type (conta-corrente, poupanca)")
	cmd.Flags().StringVar(&transactionType, "transaction-type", "deposito", "transaction type (deposito, transferencia)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, comma or dot decimals (required)")
	cmd.Flags().StringVar(&description, "description", "", "optional description")
	cmd.Flags().StringVar(&imagePath, "image", "", "path of a receipt image to upload")
	cmd.Flags().StringVar(&attachmentURL, "attachment-url", "", "keep an already-uploaded attachment")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newDeleteCommand() *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a transaction and clean up its attachment",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPI()
			if err != nil {
				return err
			}

			storage, err := newBlobStorage(cmd.Context())
			if err != nil {
				return err
			}

			var cleaner *client.Cleaner
			if storage != nil {
				cleaner = client.NewCleaner(storage, 4)
				defer cleaner.Close()
			}

			session := client.NewSession(api, cleaner)
			// The attachment URL comes from the cache, so load it first.
			if err := session.Refresh(cmd.Context()); err != nil {
				return err
			}
			if err := session.Delete(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Printf("Transação %d excluída\n", id)
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "transaction id (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
