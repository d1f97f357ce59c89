package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	urfave "github.com/urfave/cli/v3"
	"github.com/zalando/go-keyring"
)

const (
	tokenFileName  = "model_token"
	tokenFileMode  = 0600
	keyringService = "fraudcheck"
	keyringUser    = "model_token"
	tokenEnvVar    = "FRAUDCHECK_MODEL_TOKEN"
)

var (
	tokenCmd = &urfave.Command{
		Name:            "token",
		HideHelpCommand: true,
		Usage:           "Manage the bearer token sent to a remote model",
		Commands: []*urfave.Command{
			{
				Name:   "set",
				Usage:  "Read a token from stdin and store it in the OS keychain",
				Action: cmdSetToken,
			},
			{
				Name:   "clear",
				Usage:  "Remove the stored token",
				Action: cmdClearToken,
			},
		},
	}
)

func cmdSetToken(_ context.Context, cmd *urfave.Command) error {
	fmt.Fprint(cmd.Root().Writer, "Paste the model token and hit enter:\n>")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("reading user input: %w", err)
	}

	token := strings.TrimSpace(line)
	if token == "" {
		return errors.New("token cannot be empty")
	}

	if err := saveModelToken(getHomeDir(), token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	fmt.Fprintln(cmd.Root().Writer, "Token saved")
	return nil
}

func cmdClearToken(_ context.Context, cmd *urfave.Command) error {
	if err := clearModelToken(getHomeDir()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.Root().Writer, "Token removed")
	return nil
}

func saveModelToken(dir, token string) error {
	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		slog.Warn("keychain unavailable, falling back to file", "error", err)
		return saveModelTokenFile(dir, token)
	}

	// Clean up legacy file if it exists
	os.Remove(filepath.Join(dir, tokenFileName))

	return nil
}

// getModelToken resolves the token from the environment, then the keychain,
// then the token file.
func getModelToken(dir string) (string, error) {
	if token := os.Getenv(tokenEnvVar); token != "" {
		return token, nil
	}

	token, err := keyring.Get(keyringService, keyringUser)
	if err == nil && token != "" {
		return token, nil
	}

	return getModelTokenFile(dir)
}

func clearModelToken(dir string) error {
	kerr := keyring.Delete(keyringService, keyringUser)
	if kerr != nil && !errors.Is(kerr, keyring.ErrNotFound) {
		slog.Debug("keychain delete failed", "error", kerr)
	}

	ferr := os.Remove(filepath.Join(dir, tokenFileName))
	if ferr != nil && !errors.Is(ferr, os.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", ferr)
	}
	return nil
}

func saveModelTokenFile(dir, token string) error {
	return os.WriteFile(filepath.Join(dir, tokenFileName), []byte(token), tokenFileMode)
}

func getModelTokenFile(dir string) (string, error) {
	tokenPath := filepath.Join(dir, tokenFileName)
	b, err := os.ReadFile(tokenPath)
	if err != nil {
		return "", fmt.Errorf("reading token file %s: %w", tokenPath, err)
	}
	return strings.TrimSpace(string(b)), nil
}
