package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Create, log in and inspect players",
	}

	cmd.AddCommand(newPlayerGuestCmd())
	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerLoginCmd())
	cmd.AddCommand(newPlayerMeCmd())
	cmd.AddCommand(newPlayerLogoutCmd())

	return cmd
}

// authenticate posts credentials, stores the returned session token and
// prints the player
func authenticate(path string, req map[string]string) error {
	var result AuthResult
	if err := client.Post(path, req, &result); err != nil {
		return err
	}

	if err := cfg.SaveToken(result.SessionToken); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	NewOutput(cfg.Output).Print(result)
	return nil
}

// credentials holds the shared --user/--pass flags
type credentials struct {
	user      string
	pass      string
	passStdin bool
}

func (c *credentials) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&c.pass, "pass", "", "Password")
	cmd.Flags().BoolVar(&c.passStdin, "pass-stdin", false, "Read the password from the first line of stdin")
	cmd.MarkFlagsMutuallyExclusive("pass", "pass-stdin")
	_ = cmd.MarkFlagRequired("user")
}

// password returns the --pass value or the first line of in
func (c *credentials) password(in io.Reader) (string, error) {
	if !c.passStdin {
		if c.pass == "" {
			return "", errors.New("--pass or --pass-stdin is required")
		}
		return c.pass, nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	pass := strings.TrimRight(line, "\r\n")
	if pass == "" {
		return "", errors.New("empty password on stdin")
	}
	return pass, nil
}

func newPlayerGuestCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Play as a guest under a display name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return authenticate("/api/v1/players/guest", map[string]string{"display_name": name})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var name string
	var creds credentials

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := creds.password(cmd.InOrStdin())
			if err != nil {
				return err
			}

			return authenticate("/api/v1/players/register", map[string]string{
				"display_name": name,
				"username":     creds.user,
				"password":     pass,
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")
	creds.bind(cmd)

	return cmd
}

func newPlayerLoginCmd() *cobra.Command {
	var creds credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to an existing account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := creds.password(cmd.InOrStdin())
			if err != nil {
				return err
			}

			return authenticate("/api/v1/players/login", map[string]string{
				"username": creds.user,
				"password": pass,
			})
		},
	}

	creds.bind(cmd)

	return cmd
}

func newPlayerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged-in player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player
			if err := client.Get("/api/v1/players/me", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newPlayerLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token == "" {
				return errors.New("not logged in")
			}

			if err := client.Post("/api/v1/players/logout", nil, nil); err != nil {
				return err
			}

			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			NewOutput(cfg.Output).PrintMessage("Logged out")
			return nil
		},
	}
}
