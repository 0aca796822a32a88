//go:build integration

// Package ioc_test contains integration tests for the IoC container.
// These tests require a running MongoDB, Kafka, and AMQP instance and
// should only run in environments with that infrastructure (e.g. local
// dev or an integration CI job).
package ioc_test

import (
	"os"
	"testing"

	"github.com/golobby/container/v3"

	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
	matchmaking_out "github.com/matchforge/platform/pkg/domain/matchmaking/ports/out"
	ioc "github.com/matchforge/platform/pkg/infra/ioc"
)

var c *container.Container

func getContainer() *container.Container {
	os.Setenv("DEV_ENV", "test")
	os.Setenv("MONGO_URI", "mongodb://127.0.0.1:37019/matchmaking")
	os.Setenv("MONGODB_DATABASE", "matchmaking")

	if c == nil {
		builder := ioc.NewContainerBuilder().WithEnvFile()

		if err := ioc.InjectMongoDB(builder.Container); err != nil {
			panic(err)
		}
		if err := ioc.InjectMessaging(builder.Container); err != nil {
			panic(err)
		}
		if err := ioc.InjectDomainServices(builder.Container); err != nil {
			panic(err)
		}

		instance := builder.WithInboundPorts().Build()
		c = &instance
	}

	return c
}

func TestResolveSubmitMatchRequestCommandHandler(t *testing.T) {
	container := getContainer()

	var handler matchmaking_in.SubmitMatchRequestCommandHandler
	if err := container.Resolve(&handler); err != nil {
		t.Fatalf("failed to resolve SubmitMatchRequestCommandHandler: %v", err)
	}
}

func TestResolveLobbyRepository(t *testing.T) {
	container := getContainer()

	var repo matchmaking_out.LobbyRepository
	if err := container.Resolve(&repo); err != nil {
		t.Fatalf("failed to resolve LobbyRepository: %v", err)
	}
}

func TestResolvePostChatMessageCommandHandler(t *testing.T) {
	container := getContainer()

	var handler matchmaking_in.PostChatMessageCommandHandler
	if err := container.Resolve(&handler); err != nil {
		t.Fatalf("failed to resolve PostChatMessageCommandHandler: %v", err)
	}
}
