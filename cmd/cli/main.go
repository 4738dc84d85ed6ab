package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bankledger-cli",
		Short: "BankLedger CLI tool",
		Long:  `A command line interface for interacting with the BankLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the BankLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(holderCmd())
	rootCmd.AddCommand(accountCmd())
	rootCmd.AddCommand(transferCmd())
	rootCmd.AddCommand(reconcileCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func holderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holder",
		Short: "Holder operations",
	}

	var fullName, email, phone string
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account holder",
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/holders", map[string]any{
				"full_name": fullName,
				"email":     email,
				"phone":     phone,
			})
		},
	}
	registerCmd.Flags().StringVar(&fullName, "name", "", "Full name")
	registerCmd.Flags().StringVar(&email, "email", "", "Email address")
	registerCmd.Flags().StringVar(&phone, "phone", "", "Phone number")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get a holder by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/holders/" + args[0])
		},
	}

	cmd.AddCommand(registerCmd, getCmd)

	return cmd
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var holderID, holderName, accountType, initial string
	openCmd := &cobra.Command{
		Use:   "open",
		Short: "Open a new account",
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/accounts", map[string]any{
				"holder_id":       holderID,
				"holder_name":     holderName,
				"type":            accountType,
				"initial_balance": initial,
			})
		},
	}
	openCmd.Flags().StringVar(&holderID, "holder", "", "Holder ID")
	openCmd.Flags().StringVar(&holderName, "holder-name", "", "Holder name")
	openCmd.Flags().StringVar(&accountType, "type", "savings", "Account type (savings or current)")
	openCmd.Flags().StringVar(&initial, "initial", "0", "Initial balance")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get an account by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/accounts/" + args[0])
		},
	}

	var status string
	statusCmd := &cobra.Command{
		Use:   "status <id>",
		Short: "Change an account's lifecycle status",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			put("/api/v1/accounts/"+args[0]+"/status", map[string]any{
				"status": status,
			})
		},
	}
	statusCmd.Flags().StringVar(&status, "to", "", "Target status (inactive or closed)")

	var amount, entryID string
	depositCmd := &cobra.Command{
		Use:   "deposit <id>",
		Short: "Deposit into an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/accounts/"+args[0]+"/deposits", map[string]any{
				"amount":   amount,
				"entry_id": entryID,
			})
		},
	}
	depositCmd.Flags().StringVar(&amount, "amount", "", "Amount to deposit")
	depositCmd.Flags().StringVar(&entryID, "entry-id", "", "Pre-generated entry ID for idempotent resubmission")

	var wAmount, wEntryID string
	withdrawCmd := &cobra.Command{
		Use:   "withdraw <id>",
		Short: "Withdraw from an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/accounts/"+args[0]+"/withdrawals", map[string]any{
				"amount":   wAmount,
				"entry_id": wEntryID,
			})
		},
	}
	withdrawCmd.Flags().StringVar(&wAmount, "amount", "", "Amount to withdraw")
	withdrawCmd.Flags().StringVar(&wEntryID, "entry-id", "", "Pre-generated entry ID for idempotent resubmission")

	historyCmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show an account's journal",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/accounts/" + args[0] + "/entries")
		},
	}

	cmd.AddCommand(openCmd, getCmd, statusCmd, depositCmd, withdrawCmd, historyCmd)

	return cmd
}

func transferCmd() *cobra.Command {
	var from, to, amount string
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer between accounts",
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/transfers", map[string]any{
				"from_account_id": from,
				"to_account_id":   to,
				"amount":          amount,
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Source account ID")
	cmd.Flags().StringVar(&to, "to", "", "Destination account ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to transfer")

	return cmd
}

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile [account-id]",
		Short: "Verify balances against the journal",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 1 {
				get("/api/v1/accounts/" + args[0] + "/reconciliation")
				return
			}

			get("/api/v1/reconciliation")
		},
	}

	return cmd
}

func get(path string) {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}

	printResponse(resp)
}

func post(path string, body map[string]any) {
	send(http.MethodPost, path, body)
}

func put(path string, body map[string]any) {
	send(http.MethodPut, path, body)
}

func send(method, path string, body map[string]any) {
	payload, err := json.Marshal(body)
	if err != nil {
		fmt.Printf("Error encoding request: %v\n", err)
		os.Exit(1)
	}

	req, err := http.NewRequest(method, baseURL+path, bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
	} else {
		fmt.Println(pretty.String())
	}

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\n", resp.StatusCode)
		os.Exit(1)
	}
}
