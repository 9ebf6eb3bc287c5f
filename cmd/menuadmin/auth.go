package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/arthur-debert/menuadmin/api"
	"github.com/arthur-debert/menuadmin/gate"
	"github.com/arthur-debert/menuadmin/session"
	"github.com/spf13/cobra"
)

func (cli *CLI) newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Sign in with the administrator's email and password. The token and
user are written to the session file and reused by later commands.

Credentials may also come from MENUADMIN_EMAIL and MENUADMIN_PASSWORD.`,
		Args: cobra.NoArgs,
		RunE: cli.runLogin,
	}
	cmd.Flags().String("email", "", "Administrator email")
	cmd.Flags().String("password", "", "Administrator password")
	return cmd
}

func (cli *CLI) runLogin(cmd *cobra.Command, args []string) error {
	cli.gate.Start()

	// An existing session makes /login redirect to the dashboard
	if route := cli.gate.Resolve(gate.PathLogin); route.Target == gate.PathDashboard {
		user, _ := cli.gate.User()
		fmt.Fprintf(cli.out, "Already logged in as %s\n", displayName(user.Name, user.Email))
		fmt.Fprintf(cli.out, "-> %s\n", route.Target)
		return nil
	}

	email := cli.viperInst.GetString("email")
	password := cli.viperInst.GetString("password")

	target, err := cli.gate.Login(cmd.Context(), email, password)
	if err != nil {
		return loginError(err)
	}

	user, _ := cli.gate.User()
	fmt.Fprintf(cli.out, "Logged in as %s\n", displayName(user.Name, user.Email))
	fmt.Fprintf(cli.out, "-> %s\n", target)
	return nil
}

func loginError(err error) error {
	if errors.Is(err, gate.ErrMissingCredentials) {
		return &CLIError{
			Operation: "log in",
			Cause:     err.Error(),
			Suggestions: []string{
				"Pass --email and --password",
				"Or set MENUADMIN_EMAIL and MENUADMIN_PASSWORD",
			},
			Underlying: err,
		}
	}

	var loginErr *gate.LoginError
	if errors.As(err, &loginErr) {
		// A 401 here means bad credentials, not an expired session
		if api.IsUnauthorized(loginErr.Err) {
			return &CLIError{
				Operation:   "log in",
				Cause:       loginErr.Message,
				Suggestions: []string{"Check the email and password"},
				Underlying:  err,
			}
		}
		return NewAPIError("log in", loginErr.Message, loginErr.Err)
	}

	return &CLIError{Operation: "log in", Cause: err.Error(), Underlying: err}
}

func (cli *CLI) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli.gate.Start()
			target, err := cli.gate.Logout()
			if err != nil {
				return &CLIError{Operation: "log out", Cause: "session file could not be cleared", Details: err.Error(), Underlying: err}
			}
			fmt.Fprintln(cli.out, "Logged out")
			fmt.Fprintf(cli.out, "-> %s\n", target)
			return nil
		},
	}
}

func (cli *CLI) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in administrator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.requireDashboard("show session"); err != nil {
				return err
			}

			user, _ := cli.gate.User()
			fmt.Fprintf(cli.out, "Name:  %s\n", user.Name)
			fmt.Fprintf(cli.out, "Email: %s\n", user.Email)
			fmt.Fprintf(cli.out, "ID:    %s\n", user.ID)

			token, _ := cli.store.Token()
			if info, ok := session.Claims(token); ok {
				if info.Subject != "" {
					fmt.Fprintf(cli.out, "Token subject: %s\n", info.Subject)
				}
				if !info.ExpiresAt.IsZero() {
					status := ""
					if info.Expired(time.Now()) {
						status = " (expired)"
					}
					fmt.Fprintf(cli.out, "Token expires: %s%s\n", info.ExpiresAt.Local().Format(time.RFC1123), status)
				}
			}
			return nil
		},
	}
}

func (cli *CLI) newRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <path>",
		Short: "Show where a path leads for the current session",
		Long: `Resolve a dashboard path the way the app would: "/" and unknown paths
redirect, "/login" redirects to "/dashboard" once signed in and "/dashboard"
redirects to "/login" when not.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli.gate.Start()
			route := cli.gate.Resolve(args[0])
			switch {
			case route.Pending:
				fmt.Fprintf(cli.out, "%s (checking session)\n", route.Requested)
			case route.Redirected():
				fmt.Fprintf(cli.out, "%s -> %s\n", route.Requested, route.Target)
			default:
				fmt.Fprintln(cli.out, route.Target)
			}
			return nil
		},
	}
}

func displayName(name, email string) string {
	switch {
	case name == "":
		return email
	case email == "":
		return name
	default:
		return fmt.Sprintf("%s <%s>", name, email)
	}
}
