package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var resolveCustomerName string

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <account-name>",
	Short: "Resolve an account name to its Google Ads customer id",
	Long: `Resolve an account name to its Google Ads customer id using the
accounts database. Names are matched case-insensitively; use
--customer-name to disambiguate accounts that exist under several
customers.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

// loginCustomerCmd represents the login-customer command
var loginCustomerCmd = &cobra.Command{
	Use:   "login-customer <customer-id>",
	Short: "Determine the login customer id authorizing API calls for a customer",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoginCustomer,
}

// accountTimeCmd represents the account-time command
var accountTimeCmd = &cobra.Command{
	Use:   "account-time <customer-id>",
	Short: "Show the current time and date in the account's timezone",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountTime,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(loginCustomerCmd)
	rootCmd.AddCommand(accountTimeCmd)

	resolveCmd.Flags().StringVar(&resolveCustomerName, "customer-name", "", "restrict the lookup to accounts of this customer")
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	id, err := store.CustomerID(ctx, args[0], resolveCustomerName)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("no account named %q found", args[0])
	}

	fmt.Println(id)
	return nil
}

func runLoginCustomer(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	customerID := args[0]

	refreshToken, err := store.RefreshToken(ctx, customerID)
	if err != nil {
		return err
	}
	if refreshToken == "" {
		return fmt.Errorf("customer %s has no stored refresh token", customerID)
	}

	id, err := factory.LoginCustomerID(ctx, customerID, refreshToken)
	if err != nil {
		return err
	}

	fmt.Println(id)
	return nil
}

func runAccountTime(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	now, err := factory.AccountTime(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Time: %s\n", now.Format(time.RFC3339))
	fmt.Printf("Date: %s\n", now.Format("2006-01-02"))
	fmt.Printf("Timezone: %s\n", now.Location())
	return nil
}
