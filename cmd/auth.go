package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tawahcm/soquy/internal/auth"
	"github.com/tawahcm/soquy/internal/config"
	"github.com/tawahcm/soquy/internal/output"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:     "auth",
	Short:   "Log in and out of the hosted store",
	GroupID: "system",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			fmt.Print("Email: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			email = strings.TrimSpace(line)
		}
		if email == "" {
			return fmt.Errorf("email is required")
		}

		fmt.Print("Password: ")
		pw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		id, err := auth.Login(config.ServerURL(), email, string(pw))
		if err != nil {
			return err
		}
		output.Success("Logged in as %s", id.Email)
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current login",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, creds, err := auth.Current()
		if err != nil {
			return err
		}
		if id == nil {
			output.Info("Not logged in")
			return nil
		}
		output.Info("Logged in as %s (%s)", id.Email, id.UserID)
		output.Subtle("Server: %s", creds.ServerURL)
		if !id.ExpiresAt.IsZero() {
			if id.Expired(time.Now()) {
				output.Warning("Session expired %s", id.ExpiresAt.Local().Format("02/01/2006 15:04"))
			} else {
				output.Subtle("Session valid until %s", id.ExpiresAt.Local().Format("02/01/2006 15:04"))
			}
		}
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := auth.Logout(); err != nil {
			return err
		}
		output.Success("Logged out")
		return nil
	},
}

func init() {
	authLoginCmd.Flags().StringP("email", "e", "", "account email")
	authCmd.AddCommand(authLoginCmd, authStatusCmd, authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}
