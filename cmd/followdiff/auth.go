package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"followdiff/pkg/auth"
	"followdiff/pkg/config"
	"followdiff/pkg/logger"
	"followdiff/pkg/ratelimit"
	"followdiff/pkg/twitter"
	"followdiff/pkg/ui"
)

var skipVerify bool

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Twitter API credentials",
	Long: `Manage stored Twitter API credentials securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read only)

Never share your credentials or config files!`,
}

// authLoginCmd represents the auth login command
var authLoginCmd = &cobra.Command{
	Use:   "login [account]",
	Short: "Store API credentials securely",
	Long: `Store Twitter API credentials in the system keychain or encrypted file.

You will be prompted for:
  - An account name for the credentials (default "default")
  - API key and API key secret
  - Access token and access token secret

Secrets are not echoed. The credentials are checked against the API before
they are stored unless --skip-verify is given.`,
	Example: `  # Interactive login
  followdiff auth login

  # Store a second set of credentials
  followdiff auth login work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// authLogoutCmd represents the auth logout command
var authLogoutCmd = &cobra.Command{
	Use:   "logout [account]",
	Short: "Remove stored credentials",
	Long: `Remove stored credentials.

If no account is given and several are stored, you are asked which to remove.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

// authListCmd represents the auth list command
var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored accounts with masked credentials.`,
	Args:  cobra.NoArgs,
	Run:   runAuthList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authListCmd)
	authLoginCmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "store the credentials without calling the API")
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)

	auth.ShowCredentialGuide(os.Stdout)

	name := auth.DefaultAccountName
	if len(args) > 0 {
		name = args[0]
	} else {
		fmt.Printf("📱 Account name [%s]: ", auth.DefaultAccountName)
		input, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			ui.PrintError("Failed to read account name", err.Error())
			os.Exit(1)
		}
		if input = strings.TrimSpace(input); input != "" {
			name = input
		}
	}

	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("\n⚠️  Account '%s' already exists. Update credentials? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Println("\n🔐 Enter your credentials (they will be hidden as you type):")
	fmt.Println()

	account := &auth.Account{Name: name}
	prompts := []struct {
		label string
		dst   *string
	}{
		{"API key", &account.APIKey},
		{"API key secret", &account.APISecretKey},
		{"Access token", &account.AccessToken},
		{"Access token secret", &account.AccessTokenSecret},
	}
	for _, p := range prompts {
		fmt.Printf("%s: ", p.label)
		value, err := readSecret(reader)
		if err != nil {
			ui.PrintError("Failed to read "+strings.ToLower(p.label), err.Error())
			os.Exit(1)
		}
		*p.dst = value
	}

	if err := account.Validate(); err != nil {
		ui.PrintError("Incomplete credentials", err.Error())
		os.Exit(1)
	}

	if !skipVerify {
		fmt.Println("\n🔎 Checking credentials with the API...")
		me, err := verifyAccount(account)
		if err != nil {
			ui.PrintError("Credential check failed", err.Error())
			fmt.Println("Use --skip-verify to store them anyway.")
			os.Exit(1)
		}
		ui.PrintInfo("Authenticated as", "@"+me)
	}

	fmt.Println("\n📋 Summary:")
	sanitized := auth.SanitizeAccount(account)
	fmt.Printf("   Account: %s\n", sanitized.Name)
	fmt.Printf("   API key: %s\n", sanitized.APIKey)
	fmt.Printf("   Access token: %s\n", sanitized.AccessToken)

	fmt.Println("\n💾 Storing credentials securely...")
	if err := manager.Store(account); err != nil {
		ui.PrintError("Failed to store credentials", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("Account saved: %s", name))

	fmt.Println("\n📖 Quick Start Guide:")
	fmt.Println("   $ followdiff download <handle>")
	fmt.Printf("   $ followdiff download <handle> --account %s\n", name)
	fmt.Println("   $ followdiff compare --latest <handle>")
	fmt.Println("\n⚠️  Never share your credentials or config files!")
}

// verifyAccount calls verify_credentials with the account's credentials and
// returns the authenticated handle
func verifyAccount(account *auth.Account) (string, error) {
	cfg := config.DefaultConfig()
	if base := os.Getenv(config.EnvPrefix + "BASE_URL"); base != "" {
		cfg.Twitter.BaseURL = base
	}
	account.Apply(&cfg.Twitter)

	client, err := twitter.NewClient(cfg.Twitter, ratelimit.Unlimited(), logger.GetLogger())
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Twitter.Timeout)
	defer cancel()

	me, err := client.VerifyIdentity(ctx)
	if err != nil {
		return "", err
	}
	return me.Handle, nil
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		accounts, err := manager.List()
		if err != nil || len(accounts) == 0 {
			ui.PrintError("No stored accounts found")
			return
		}

		reader := bufio.NewReader(os.Stdin)
		if len(accounts) == 1 {
			name = accounts[0].Name
			fmt.Printf("Remove account '%s'? (y/N): ", name)
			input, _ := reader.ReadString('\n')
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
				return
			}
		} else {
			fmt.Println("Select account to remove:")
			for i, account := range accounts {
				fmt.Printf("  %d. %s\n", i+1, account.Name)
			}
			fmt.Printf("  %d. Remove all accounts\n", len(accounts)+1)
			fmt.Printf("  0. Cancel\n\n")

			fmt.Print("Choice: ")
			input, _ := reader.ReadString('\n')

			var choice int
			fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)

			switch {
			case choice == 0:
				return
			case choice == len(accounts)+1:
				fmt.Print("Remove ALL accounts? This cannot be undone! (yes/N): ")
				confirm, _ := reader.ReadString('\n')
				if strings.TrimSpace(confirm) != "yes" {
					return
				}
				if err := manager.DeleteAll(); err != nil {
					ui.PrintError("Failed to remove all accounts", err.Error())
					os.Exit(1)
				}
				ui.PrintSuccess("All accounts removed")
				return
			case choice > 0 && choice <= len(accounts):
				name = accounts[choice-1].Name
			default:
				ui.PrintError("Invalid choice")
				os.Exit(1)
			}
		}
	}

	if err := manager.Delete(name); err != nil {
		ui.PrintError("Failed to remove account", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Account removed: " + name)
}

func runAuthList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	accounts, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list accounts", err.Error())
		os.Exit(1)
	}

	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "Use 'followdiff auth login' to add an account")
		return
	}

	ui.PrintHighlight("Stored Accounts")
	fmt.Println()

	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. Account: %s\n", i+1, sanitized.Name)
		fmt.Printf("   API key: %s\n", sanitized.APIKey)
		fmt.Printf("   API key secret: %s\n", sanitized.APISecretKey)
		fmt.Printf("   Access token: %s\n", sanitized.AccessToken)
		fmt.Printf("   Access token secret: %s\n", sanitized.AccessTokenSecret)
		fmt.Printf("   Last modified: %s\n", sanitized.LastModified.Format(time.DateTime))
		fmt.Println()
	}
}

// readSecret reads a value without echo when stdin is a terminal, falling
// back to a plain line read
func readSecret(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
