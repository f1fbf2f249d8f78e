package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/database"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage dashboard users",
	Long:  `Users may retrain the model and change alert thresholds through the API.`,
}

var createUserCmd = &cobra.Command{
	Use:   "create [username]",
	Short: "Create a user",
	Long: `Create a user. Missing values are prompted for; with --password-stdin the
password is read from the first line of stdin instead, for scripted setups.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreateUser,
}

var verifyUserCmd = &cobra.Command{
	Use:   "verify [username]",
	Short: "Check a username and password against the database",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runVerifyUser,
}

var passwordFromStdin bool

func init() {
	for _, c := range []*cobra.Command{createUserCmd, verifyUserCmd} {
		c.Flags().BoolVar(&passwordFromStdin, "password-stdin", false, "read the password from stdin")
		userCmd.AddCommand(c)
	}
	rootCmd.AddCommand(userCmd)
}

// credentialPrompt collects a username and password from a terminal or a pipe
type credentialPrompt struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	readSecret  func() ([]byte, error)
}

func newCredentialPrompt(cmd *cobra.Command) *credentialPrompt {
	fd := int(os.Stdin.Fd())
	return &credentialPrompt{
		in:          bufio.NewReader(cmd.InOrStdin()),
		out:         cmd.ErrOrStderr(),
		interactive: !passwordFromStdin && term.IsTerminal(fd),
		readSecret:  func() ([]byte, error) { return term.ReadPassword(fd) },
	}
}

func (p *credentialPrompt) line(label string) (string, error) {
	if p.interactive {
		fmt.Fprint(p.out, label)
	}
	s, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func (p *credentialPrompt) secret(label string) (string, error) {
	if !p.interactive {
		return p.line(label)
	}
	fmt.Fprint(p.out, label)
	b, err := p.readSecret()
	fmt.Fprintln(p.out)
	return string(b), err
}

// username returns args[0] or asks for it
func (p *credentialPrompt) username(args []string) (string, error) {
	name := ""
	if len(args) > 0 {
		name = strings.TrimSpace(args[0])
	} else {
		var err error
		if name, err = p.line("Username: "); err != nil {
			return "", fmt.Errorf("failed to read username: %w", err)
		}
	}
	if name == "" {
		return "", errors.New("username cannot be empty")
	}
	return name, nil
}

// newPassword asks twice on a terminal and once on a pipe
func (p *credentialPrompt) newPassword() (string, error) {
	password, err := p.secret("Password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	if !p.interactive {
		return password, nil
	}

	confirm, err := p.secret("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password confirmation: %w", err)
	}
	if confirm != password {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	prompt := newCredentialPrompt(cmd)
	username, err := prompt.username(args)
	if err != nil {
		return err
	}
	password, err := prompt.newPassword()
	if err != nil {
		return err
	}

	dm, err := openDatabase()
	if err != nil {
		return err
	}
	defer dm.Close()

	user, err := dm.CreateUser(cmd.Context(), username, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created user %s (%s) at %s\n",
		user.Username, user.ID, user.CreatedAt.Local().Format(time.DateTime))
	return nil
}

func runVerifyUser(cmd *cobra.Command, args []string) error {
	prompt := newCredentialPrompt(cmd)
	username, err := prompt.username(args)
	if err != nil {
		return err
	}
	password, err := prompt.secret("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	dm, err := openDatabase()
	if err != nil {
		return err
	}
	defer dm.Close()

	user, err := dm.ValidateUser(cmd.Context(), username, password)
	if errors.Is(err, database.ErrInvalidCredentials) {
		return fmt.Errorf("invalid credentials for %s", username)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Credentials valid for %s (%s)\n", user.Username, user.ID)
	return nil
}
