package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pearl-labs/pearl-deploy/internal/domain/config"
	"github.com/pearl-labs/pearl-deploy/internal/usecase"
)

// DefaultVerifyCommand prefixes every verification line when none is configured
const DefaultVerifyCommand = "npx hardhat verify"

// VerificationLogAdapter appends one verification command per line to verify.<network>.txt
type VerificationLogAdapter struct {
	settings config.DeploySettings
	command  string
}

// NewVerificationLogAdapter creates a new VerificationLogAdapter
func NewVerificationLogAdapter(cfg *config.RuntimeConfig) *VerificationLogAdapter {
	command := cfg.Deploy.VerifyCommand
	if command == "" {
		command = DefaultVerifyCommand
	}
	return &VerificationLogAdapter{settings: cfg.Deploy, command: command}
}

// FormatVerifyCommand renders `<command> <address> <args...> --network <network>`.
func FormatVerifyCommand(command string, entry usecase.VerificationEntry) string {
	parts := make([]string, 0, len(entry.Args)+4)
	parts = append(parts, command, entry.Address.Hex())
	for _, arg := range entry.Args {
		parts = append(parts, arg.String())
	}
	parts = append(parts, "--network", entry.Network)
	return strings.Join(parts, " ")
}

// Append never rewrites existing lines.
func (l *VerificationLogAdapter) Append(_ context.Context, entry usecase.VerificationEntry) error {
	path := l.settings.VerificationLogPath(entry.Network)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create verification log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open verification log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatVerifyCommand(l.command, entry) + "\n"); err != nil {
		return fmt.Errorf("failed to append to verification log: %w", err)
	}
	return nil
}

// Ensure VerificationLogAdapter implements VerificationLog
var _ usecase.VerificationLog = (*VerificationLogAdapter)(nil)
