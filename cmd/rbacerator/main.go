package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/benmlops/rbacerator/pkg/azure"
	"github.com/benmlops/rbacerator/pkg/azure/azcli"
	"github.com/benmlops/rbacerator/pkg/azure/credentials"
	"github.com/benmlops/rbacerator/pkg/azure/fake"
	"github.com/benmlops/rbacerator/pkg/azure/graph"
	"github.com/benmlops/rbacerator/pkg/azure/subscription"
	"github.com/benmlops/rbacerator/pkg/config"
	"github.com/benmlops/rbacerator/pkg/logger"
	"github.com/benmlops/rbacerator/pkg/naming"
)

func main() {
	err := run()

	if err != nil {
		log.WithError(err).Error("provisioning failed")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger.Setup(cfg.LogFormat, cfg.Debug)

	cfg.Print([]string{
		config.AzureClientSecret,
	})

	if err := cfg.Validate([]string{config.SubscriptionId}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	name := naming.ServicePrincipalName(cfg.Environment, cfg.ProjectName)
	scope := naming.SubscriptionScope(cfg.SubscriptionId)

	findings := naming.Lint(cfg.Environment, cfg.ProjectName, cfg.SubscriptionId, cfg.Role)
	for _, finding := range findings {
		log.Warn(finding)
	}
	if cfg.Strict && len(findings) > 0 {
		return fmt.Errorf("strict mode: refusing to continue with %d finding(s)", len(findings))
	}

	log.Infof("using subscription '%s'", cfg.SubscriptionId)
	log.Infof("creating service principal '%s' with role '%s' in scope '%s'", name, cfg.Role, scope)

	if cfg.VerifySubscription {
		if err := verifySubscription(ctx, cfg); err != nil {
			return err
		}
	}

	provisioner, err := newProvisioner(ctx, cfg)
	if err != nil {
		return err
	}

	request := azure.Request{
		Name:  name,
		Role:  cfg.Role,
		Scope: scope,
	}
	tx := azure.NewTransaction(ctx, log.WithField("servicePrincipalName", name), request)

	creds, err := provisioner.Create(tx)
	if err != nil {
		return err
	}

	log.Debugf("provisioned credentials: %+v", creds.Redacted())

	if err := printCredentials(creds); err != nil {
		return err
	}

	log.Info("store the credentials above in a secure location; the password cannot be retrieved again")

	return nil
}

func newProvisioner(ctx context.Context, cfg *config.Config) (azure.Provisioner, error) {
	switch cfg.Backend {
	case config.BackendAzureCLI:
		return azcli.New()
	case config.BackendGraph:
		return graph.New(ctx, cfg)
	case config.BackendFake:
		log.Warn("using the fake backend; no service principal will be created")
		return fake.NewProvisioner(), nil
	default:
		return nil, fmt.Errorf("unknown backend '%s'", cfg.Backend)
	}
}

func verifySubscription(ctx context.Context, cfg *config.Config) error {
	credential, err := graph.NewARMCredential(cfg.Azure)
	if err != nil {
		return err
	}

	service, err := subscription.NewService(cfg.SubscriptionId, credential)
	if err != nil {
		return err
	}

	displayName, err := service.Verify(ctx)
	if err != nil {
		return err
	}

	log.Infof("subscription '%s' (%s) exists", cfg.SubscriptionId, displayName)
	return nil
}

// printCredentials writes the credential payload to stdout as indented
// JSON. All logging goes to stderr, so stdout carries only this payload.
func printCredentials(creds *credentials.Credentials) error {
	out, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	fmt.Println(string(out))
	return nil
}
