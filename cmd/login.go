package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/misterclayt0n/corefit/internal/credentials"
)

var (
	loginEmail    string
	loginPassword string
)

func prompt(r *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword hides input when stdin is a terminal.
func readPassword(in io.Reader, r *bufio.Reader, out io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return prompt(r, out, "Password: ")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, out := cmd.InOrStdin(), cmd.OutOrStdout()
		r := bufio.NewReader(in)

		email := strings.TrimSpace(loginEmail)
		if email == "" {
			var err error
			if email, err = prompt(r, out, "Email: "); err != nil {
				return fmt.Errorf("Failed to read email: %w", err)
			}
		}
		password := loginPassword
		if password == "" {
			var err error
			if password, err = readPassword(in, r, out); err != nil {
				return fmt.Errorf("Failed to read password: %w", err)
			}
		}
		if email == "" || password == "" {
			return fmt.Errorf("Email and password are required")
		}

		token, err := rt.client.Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("Failed to log in: %w", err)
		}
		if err := rt.creds.Save(credentials.Stored{Token: token, Email: email, SavedAt: time.Now().UTC()}); err != nil {
			return err
		}

		greeting := email
		if claims, err := credentials.ParseClaims(token); err == nil && claims.FirstName() != "" {
			greeting = claims.FirstName()
		}
		fmt.Fprintf(out, "✅ Logged in as %s\n", boldGreen(greeting))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := rt.creds.Clear(); err != nil {
			return fmt.Errorf("Failed to remove credentials: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who the stored token belongs to",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		token, err := credentials.Chain{credentials.Env{}, rt.creds}.Token()
		if err != nil {
			return fmt.Errorf("Failed to read credentials: %w", err)
		}
		if token == "" {
			fmt.Fprintln(out, magenta("Not logged in. Run 'corefit login'."))
			return nil
		}

		claims, err := credentials.ParseClaims(token)
		if err != nil {
			return err
		}
		printMetric(out, "Name", claims.Name)
		printMetric(out, "Email", claims.Email)
		if !claims.ExpiresAt.IsZero() {
			expires := claims.ExpiresAt.In(rt.loc).Format("02 Jan 2006 15:04")
			if claims.Expired(time.Now()) {
				expires = red(expires + " (expired, run 'corefit login')")
			}
			printMetric(out, "Expires", expires)
		}

		if p, err := rt.client.Profile(cmd.Context()); err == nil && p.WeeklyGoalDays > 0 {
			printMetric(out, "Weekly goal", pluralDays(p.WeeklyGoalDays))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (prompted when empty)")
}
