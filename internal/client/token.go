package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// credentialFile is one on-disk source of a GitHub OAuth token. The
// Copilot extension writes JSON, the gh CLI writes YAML; both map host
// names to a record carrying oauth_token.
type credentialFile struct {
	path   string
	decode func(data []byte, v any) error
}

// credentialFiles lists the token sources under configDir in lookup
// order: Copilot's own credentials first, then the gh CLI's.
func credentialFiles(configDir string) []credentialFile {
	return []credentialFile{
		{filepath.Join(configDir, "github-copilot", "hosts.json"), json.Unmarshal},
		{filepath.Join(configDir, "github-copilot", "apps.json"), json.Unmarshal},
		{filepath.Join(configDir, "gh", "hosts.yml"), yaml.Unmarshal},
	}
}

// getGitHubToken retrieves the GitHub token from the environment or
// from the first credential file that yields one.
func getGitHubToken() (string, error) {
	// Codespaces provide the token directly - fast path
	if token := os.Getenv("GITHUB_TOKEN"); token != "" && os.Getenv("CODESPACES") != "" {
		return token, nil
	}

	configDir, err := configPath()
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}

	for _, f := range credentialFiles(configDir) {
		data, err := os.ReadFile(f.path)
		if err != nil {
			continue
		}

		var hosts map[string]any
		if err := f.decode(data, &hosts); err != nil {
			continue
		}

		if token := extractGitHubToken(hosts); token != "" {
			return token, nil
		}
	}

	return "", errors.New("GitHub token not found in environment or config files")
}

// extractGitHubToken pulls the oauth_token for a github.com host out of
// a decoded credential map.
func extractGitHubToken(hosts map[string]any) string {
	for host, data := range hosts {
		if !strings.Contains(host, "github.com") {
			continue
		}

		tokenData, ok := data.(map[string]any)
		if !ok {
			continue
		}

		if token, ok := tokenData["oauth_token"].(string); ok && token != "" {
			return token
		}
	}
	return ""
}

// configPath determines the configuration directory holding GitHub
// credentials: XDG_CONFIG_HOME when valid, platform-specific fallbacks
// otherwise.
func configPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		if isValidDir(xdg) {
			return xdg, nil
		}
	}

	if runtime.GOOS == "windows" {
		if path := tryWindowsPaths(); path != "" {
			return path, nil
		}
	}

	usr, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}

	configDir := filepath.Join(usr.HomeDir, ".config")
	if isValidDir(configDir) {
		return configDir, nil
	}

	return "", errors.New("no valid config path found")
}

// isValidDir checks if a given path is a valid directory.
func isValidDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// tryWindowsPaths attempts to find the appropriate configuration path on Windows.
func tryWindowsPaths() string {
	if path := os.Getenv("LOCALAPPDATA"); isValidDir(path) {
		return path
	}

	if home := os.Getenv("HOME"); home != "" {
		if path := filepath.Join(home, "AppData", "Local"); isValidDir(path) {
			return path
		}
	}

	return ""
}
