package azcli_test

import (
	"context"
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/benmlops/rbacerator/pkg/azure"
	"github.com/benmlops/rbacerator/pkg/azure/azcli"
)

type invocation struct {
	name string
	args []string
}

type fakeRunner struct {
	invocations []invocation
	output      []byte
	err         error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.invocations = append(f.invocations, invocation{name: name, args: args})
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

const azOutput = `{
  "appId": "87ab68a8-34ba-4ee3-9d81-9d7a5e1997d5",
  "displayName": "Azure-ARM-Dev-benmlops",
  "password": "some-generated-password",
  "tenant": "a7f0e4f7-0ab9-4b5a-97b4-b6d2e69419e6"
}`

func newTransaction(request azure.Request) azure.Transaction {
	return azure.NewTransaction(context.Background(), log.NewEntry(log.New()), request)
}

func defaultRequest() azure.Request {
	return azure.Request{
		Name:  "Azure-ARM-Dev-benmlops",
		Role:  "Contributor",
		Scope: "/subscriptions/5711c1b4-4d29-4049-952e-25e86db42d30",
	}
}

func TestCreateInvocationShape(t *testing.T) {
	runner := &fakeRunner{output: []byte(azOutput)}
	client := azcli.NewWithRunner(runner)

	_, err := client.Create(newTransaction(defaultRequest()))

	assert.NoError(t, err)
	assert.Len(t, runner.invocations, 1)
	assert.Equal(t, "az", runner.invocations[0].name)
	assert.Equal(t, []string{
		"ad", "sp", "create-for-rbac",
		"--name", "Azure-ARM-Dev-benmlops",
		"--role", "Contributor",
		"--scopes", "/subscriptions/5711c1b4-4d29-4049-952e-25e86db42d30",
		"--output", "json",
	}, runner.invocations[0].args)
}

func TestCreateAlwaysRequestsStructuredOutput(t *testing.T) {
	requests := []azure.Request{
		defaultRequest(),
		{Name: "Azure-ARM-dev-benmlops", Role: "not-a-role", Scope: "/subscriptions/not-a-uuid"},
		{},
	}

	for _, request := range requests {
		runner := &fakeRunner{output: []byte(azOutput)}
		client := azcli.NewWithRunner(runner)

		_, err := client.Create(newTransaction(request))

		assert.NoError(t, err)
		args := runner.invocations[0].args
		assert.Equal(t, "--output", args[len(args)-2])
		assert.Equal(t, "json", args[len(args)-1])
	}
}

func TestCreatePassesMalformedInputsThrough(t *testing.T) {
	runner := &fakeRunner{output: []byte(azOutput)}
	client := azcli.NewWithRunner(runner)

	request := azure.Request{
		Name:  "Azure-ARM-dev-benmlops",
		Role:  "definitely not a role",
		Scope: "/subscriptions/not-a-uuid",
	}

	_, err := client.Create(newTransaction(request))

	assert.NoError(t, err)
	args := runner.invocations[0].args
	assert.Contains(t, args, "Azure-ARM-dev-benmlops")
	assert.Contains(t, args, "definitely not a role")
	assert.Contains(t, args, "/subscriptions/not-a-uuid")
}

func TestCreateDecodesCredentials(t *testing.T) {
	runner := &fakeRunner{output: []byte(azOutput)}
	client := azcli.NewWithRunner(runner)

	creds, err := client.Create(newTransaction(defaultRequest()))

	assert.NoError(t, err)
	assert.Equal(t, "87ab68a8-34ba-4ee3-9d81-9d7a5e1997d5", creds.AppID)
	assert.Equal(t, "Azure-ARM-Dev-benmlops", creds.DisplayName)
	assert.Equal(t, "some-generated-password", creds.Password)
	assert.Equal(t, "a7f0e4f7-0ab9-4b5a-97b4-b6d2e69419e6", creds.Tenant)
}

func TestCreatePropagatesRunnerError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("az: exit status 1: insufficient privileges to complete the operation")}
	client := azcli.NewWithRunner(runner)

	creds, err := client.Create(newTransaction(defaultRequest()))

	assert.Nil(t, creds)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient privileges")
	assert.Contains(t, err.Error(), "Azure-ARM-Dev-benmlops")
}

func TestCreateRejectsMalformedOutput(t *testing.T) {
	runner := &fakeRunner{output: []byte("WARNING: not json at all")}
	client := azcli.NewWithRunner(runner)

	creds, err := client.Create(newTransaction(defaultRequest()))

	assert.Nil(t, creds)
	assert.Error(t, err)
}

func TestCreateTwiceYieldsTwoInvocations(t *testing.T) {
	runner := &fakeRunner{output: []byte(azOutput)}
	client := azcli.NewWithRunner(runner)
	tx := newTransaction(defaultRequest())

	_, err := client.Create(tx)
	assert.NoError(t, err)
	_, err = client.Create(tx)
	assert.NoError(t, err)

	// no deduplication or idempotence check between runs
	assert.Len(t, runner.invocations, 2)
	assert.Equal(t, runner.invocations[0], runner.invocations[1])
}
