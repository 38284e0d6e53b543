// Package azcli provisions service principals by shelling out to the Azure
// CLI, mirroring `az ad sp create-for-rbac`.
package azcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/benmlops/rbacerator/pkg/azure"
	"github.com/benmlops/rbacerator/pkg/azure/credentials"
)

const binaryName = "az"

// Runner executes an external command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); len(msg) > 0 {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return out, nil
}

type Client struct {
	runner Runner
}

func New() (*Client, error) {
	if _, err := exec.LookPath(binaryName); err != nil {
		return nil, fmt.Errorf("looking up '%s' in PATH: %w", binaryName, err)
	}
	return &Client{runner: execRunner{}}, nil
}

func NewWithRunner(runner Runner) *Client {
	return &Client{runner: runner}
}

// commandArgs returns the argument list for `az ad sp create-for-rbac`.
// Request values are passed through verbatim, and the '--output json' pair
// is always present so that the credential payload is machine-readable.
func commandArgs(request azure.Request) []string {
	return []string{
		"ad", "sp", "create-for-rbac",
		"--name", request.Name,
		"--role", request.Role,
		"--scopes", request.Scope,
		"--output", "json",
	}
}

// Create invokes the Azure CLI once. There is no retry and no idempotence
// check; re-running creates another credential or fails, depending on the
// CLI's own semantics.
func (c *Client) Create(tx azure.Transaction) (*credentials.Credentials, error) {
	args := commandArgs(tx.Request)
	tx.Log.Debugf("invoking '%s %s'", binaryName, strings.Join(args, " "))

	out, err := c.runner.Run(tx.Ctx, binaryName, args...)
	if err != nil {
		return nil, fmt.Errorf("creating service principal '%s': %w", tx.Request.Name, err)
	}

	var creds credentials.Credentials
	if err := json.Unmarshal(out, &creds); err != nil {
		return nil, fmt.Errorf("decoding credential output: %w", err)
	}

	return &creds, nil
}
