// Command ajaxboot runs the demo contact application and audits its
// translation catalogs.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/SaiNageswarS/go-ajax-boot/auth"
	"github.com/SaiNageswarS/go-ajax-boot/dotenv"
	"github.com/spf13/cobra"
)

var (
	serveFn        = Serve
	checkCatalogFn = CheckCatalog
	getTokenFn     = auth.GetToken
)

func NewRoot() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "ajaxboot",
		Short:        "Run and inspect a go-ajax-boot application",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.ini", "path to the INI config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serveFn(cmd.Context(), configPath)
		},
	}

	var locale string
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Translation catalog tools",
	}
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "List keys of the default locale missing from --locale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return checkCatalogFn(cmd.Context(), cmd.OutOrStdout(), configPath, locale)
		},
	}
	checkCmd.Flags().StringVar(&locale, "locale", "", "locale to audit, e.g. de")
	_ = checkCmd.MarkFlagRequired("locale")
	catalogCmd.AddCommand(checkCmd)

	var tenant, user, userType string
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := dotenv.LoadEnv(); err != nil {
				return err
			}
			token, err := getTokenFn(tenant, user, userType)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&tenant, "tenant", "", "tenant (audience) of the token")
	tokenCmd.Flags().StringVar(&user, "user", "", "user id")
	tokenCmd.Flags().StringVar(&userType, "type", "user", "user type")
	_ = tokenCmd.MarkFlagRequired("tenant")
	_ = tokenCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(serveCmd, catalogCmd, tokenCmd)
	return rootCmd
}

func main() {
	if err := NewRoot().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
