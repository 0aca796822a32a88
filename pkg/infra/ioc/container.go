package ioc

import (
	"context"
	"log/slog"
	"os"
	"time"

	// env
	"github.com/joho/godotenv"

	// mongodb
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	// amqp
	"github.com/streadway/amqp"

	// container
	container "github.com/golobby/container/v3"

	// repositories/db
	db "github.com/matchforge/platform/pkg/infra/db/mongodb"

	// cross-replica relay and socket fan-out
	"github.com/matchforge/platform/pkg/infra/catalogue"
	"github.com/matchforge/platform/pkg/infra/kafka"
	"github.com/matchforge/platform/pkg/infra/notifybus"
	"github.com/matchforge/platform/pkg/infra/profileclient"
	"github.com/matchforge/platform/pkg/infra/queueindex"
	"github.com/matchforge/platform/pkg/infra/websocket"

	// domain
	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
	matchmaking_out "github.com/matchforge/platform/pkg/domain/matchmaking/ports/out"
	matchmaking_services "github.com/matchforge/platform/pkg/domain/matchmaking/services"
	matchmaking_usecases "github.com/matchforge/platform/pkg/domain/matchmaking/usecases"
)

type ContainerBuilder struct {
	Container container.Container
}

func NewContainerBuilder() *ContainerBuilder {
	c := container.New()

	b := &ContainerBuilder{
		c,
	}

	err := c.Singleton(func() container.Container {
		return b.Container
	})

	if err != nil {
		slog.Error("Failed to register *container.Container  in NewContainerBuilder.")
		panic(err)
	}

	err = c.Singleton(func() *ContainerBuilder {
		return b
	})

	if err != nil {
		slog.Error("Failed to register *ContainerBuilder in NewContainerBuilder.")
		panic(err)
	}

	return b
}

func (b *ContainerBuilder) Build() container.Container {
	return b.Container
}

func (b *ContainerBuilder) WithEnvFile() *ContainerBuilder {
	if os.Getenv("DEV_ENV") == "true" {
		err := godotenv.Load()
		if err != nil {
			slog.Error("Failed to load .env file")
			panic(err)
		}
	}

	err := b.Container.Singleton(func() (common.Config, error) {
		return EnvironmentConfig()
	})

	if err != nil {
		slog.Error("Failed to load EnvironmentConfig.")
		panic(err)
	}

	return b
}

// WithInboundPorts registers the matchmaking use cases (spec §6's HTTP
// contract, one handler per command/query) against the domain services
// InjectDomainServices already wired.
func (b *ContainerBuilder) WithInboundPorts() *ContainerBuilder {
	c := b.Container

	registerSingleton(c, func() (matchmaking_in.SubmitMatchRequestCommandHandler, error) {
		var coordinator *matchmaking_services.MatchmakingCoordinator
		if err := c.Resolve(&coordinator); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewSubmitMatchRequestUseCase(coordinator), nil
	}, "matchmaking_in.SubmitMatchRequestCommandHandler")

	registerSingleton(c, func() (matchmaking_in.CancelMatchRequestCommandHandler, error) {
		var coordinator *matchmaking_services.MatchmakingCoordinator
		if err := c.Resolve(&coordinator); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewCancelMatchRequestUseCase(coordinator), nil
	}, "matchmaking_in.CancelMatchRequestCommandHandler")

	registerSingleton(c, func() (matchmaking_in.GetMatchmakingStatusQueryHandler, error) {
		var coordinator *matchmaking_services.MatchmakingCoordinator
		if err := c.Resolve(&coordinator); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewGetMatchmakingStatusUseCase(coordinator), nil
	}, "matchmaking_in.GetMatchmakingStatusQueryHandler")

	registerSingleton(c, func() (matchmaking_in.GetMatchHistoryQueryHandler, error) {
		var coordinator *matchmaking_services.MatchmakingCoordinator
		if err := c.Resolve(&coordinator); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewGetMatchHistoryUseCase(coordinator), nil
	}, "matchmaking_in.GetMatchHistoryQueryHandler")

	registerSingleton(c, func() (matchmaking_in.GetMatchmakingStatsQueryHandler, error) {
		var coordinator *matchmaking_services.MatchmakingCoordinator
		if err := c.Resolve(&coordinator); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewGetMatchmakingStatsUseCase(coordinator), nil
	}, "matchmaking_in.GetMatchmakingStatsQueryHandler")

	registerSingleton(c, func() (matchmaking_in.JoinLobbyCommandHandler, error) {
		var lobbies *matchmaking_services.LobbyStateMachine
		if err := c.Resolve(&lobbies); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewJoinLobbyUseCase(lobbies), nil
	}, "matchmaking_in.JoinLobbyCommandHandler")

	registerSingleton(c, func() (matchmaking_in.LeaveLobbyCommandHandler, error) {
		var lobbies *matchmaking_services.LobbyStateMachine
		if err := c.Resolve(&lobbies); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewLeaveLobbyUseCase(lobbies), nil
	}, "matchmaking_in.LeaveLobbyCommandHandler")

	registerSingleton(c, func() (matchmaking_in.SetLobbyReadyCommandHandler, error) {
		var lobbies *matchmaking_services.LobbyStateMachine
		if err := c.Resolve(&lobbies); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewSetLobbyReadyUseCase(lobbies), nil
	}, "matchmaking_in.SetLobbyReadyCommandHandler")

	registerSingleton(c, func() (matchmaking_in.StartLobbyCommandHandler, error) {
		var lobbies *matchmaking_services.LobbyStateMachine
		if err := c.Resolve(&lobbies); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewStartLobbyUseCase(lobbies), nil
	}, "matchmaking_in.StartLobbyCommandHandler")

	registerSingleton(c, func() (matchmaking_in.CloseLobbyCommandHandler, error) {
		var lobbies *matchmaking_services.LobbyStateMachine
		if err := c.Resolve(&lobbies); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewCloseLobbyUseCase(lobbies), nil
	}, "matchmaking_in.CloseLobbyCommandHandler")

	registerSingleton(c, func() (matchmaking_in.GetLobbyQueryHandler, error) {
		var lobbies *matchmaking_services.LobbyStateMachine
		if err := c.Resolve(&lobbies); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewGetLobbyUseCase(lobbies), nil
	}, "matchmaking_in.GetLobbyQueryHandler")

	registerSingleton(c, func() (matchmaking_in.ListLobbiesQueryHandler, error) {
		var lobbies *matchmaking_services.LobbyStateMachine
		if err := c.Resolve(&lobbies); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewListLobbiesUseCase(lobbies), nil
	}, "matchmaking_in.ListLobbiesQueryHandler")

	registerSingleton(c, func() (matchmaking_in.PostChatMessageCommandHandler, error) {
		var chat *matchmaking_services.ChatService
		if err := c.Resolve(&chat); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewPostChatMessageUseCase(chat), nil
	}, "matchmaking_in.PostChatMessageCommandHandler")

	registerSingleton(c, func() (matchmaking_in.GetChatHistoryQueryHandler, error) {
		var chat *matchmaking_services.ChatService
		if err := c.Resolve(&chat); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewGetChatHistoryUseCase(chat), nil
	}, "matchmaking_in.GetChatHistoryQueryHandler")

	registerSingleton(c, func() (matchmaking_in.CreateNotificationCommandHandler, error) {
		var notifications *matchmaking_services.NotificationService
		if err := c.Resolve(&notifications); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewCreateNotificationUseCase(notifications), nil
	}, "matchmaking_in.CreateNotificationCommandHandler")

	registerSingleton(c, func() (matchmaking_in.ListNotificationsQueryHandler, error) {
		var notifications *matchmaking_services.NotificationService
		if err := c.Resolve(&notifications); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewListNotificationsUseCase(notifications), nil
	}, "matchmaking_in.ListNotificationsQueryHandler")

	registerSingleton(c, func() (matchmaking_in.GetUnreadNotificationCountQueryHandler, error) {
		var notifications *matchmaking_services.NotificationService
		if err := c.Resolve(&notifications); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewGetUnreadNotificationCountUseCase(notifications), nil
	}, "matchmaking_in.GetUnreadNotificationCountQueryHandler")

	registerSingleton(c, func() (matchmaking_in.MarkNotificationReadCommandHandler, error) {
		var notifications *matchmaking_services.NotificationService
		if err := c.Resolve(&notifications); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewMarkNotificationReadUseCase(notifications), nil
	}, "matchmaking_in.MarkNotificationReadCommandHandler")

	registerSingleton(c, func() (matchmaking_in.MarkNotificationsReadCommandHandler, error) {
		var notifications *matchmaking_services.NotificationService
		if err := c.Resolve(&notifications); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewMarkNotificationsReadUseCase(notifications), nil
	}, "matchmaking_in.MarkNotificationsReadCommandHandler")

	registerSingleton(c, func() (matchmaking_in.MarkAllNotificationsReadCommandHandler, error) {
		var notifications *matchmaking_services.NotificationService
		if err := c.Resolve(&notifications); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewMarkAllNotificationsReadUseCase(notifications), nil
	}, "matchmaking_in.MarkAllNotificationsReadCommandHandler")

	registerSingleton(c, func() (matchmaking_in.DeleteNotificationCommandHandler, error) {
		var notifications *matchmaking_services.NotificationService
		if err := c.Resolve(&notifications); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewDeleteNotificationUseCase(notifications), nil
	}, "matchmaking_in.DeleteNotificationCommandHandler")

	registerSingleton(c, func() (matchmaking_in.GetNotificationSettingsQueryHandler, error) {
		var notifications *matchmaking_services.NotificationService
		if err := c.Resolve(&notifications); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewGetNotificationSettingsUseCase(notifications), nil
	}, "matchmaking_in.GetNotificationSettingsQueryHandler")

	registerSingleton(c, func() (matchmaking_in.UpdateNotificationSettingsCommandHandler, error) {
		var notifications *matchmaking_services.NotificationService
		if err := c.Resolve(&notifications); err != nil {
			return nil, err
		}
		return matchmaking_usecases.NewUpdateNotificationSettingsUseCase(notifications), nil
	}, "matchmaking_in.UpdateNotificationSettingsCommandHandler")

	return b
}

// registerSingleton wraps c.Singleton with the teacher's panic-on-wiring-
// -failure idiom, naming the port being registered in the log line.
func registerSingleton(c container.Container, resolver interface{}, portName string) {
	if err := c.Singleton(resolver); err != nil {
		slog.Error("failed to register singleton", "port", portName, "error", err)
		panic(err)
	}
}

// InjectMongoDB registers the *mongo.Client and every matchmaking
// repository (spec §3 "Persistence schema").
func InjectMongoDB(c container.Container) error {
	err := c.Singleton(func() (*mongo.Client, error) {
		var config common.Config

		err := c.Resolve(&config)
		if err != nil {
			slog.Error("Failed to resolve config for mongo.Client.", "err", err)
			return nil, err
		}

		mongoOptions := options.Client().ApplyURI(config.MongoDB.URI)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, mongoOptions)

		if err != nil {
			slog.Error("Failed to connect to MongoDB.", "err", err)
			return nil, err
		}

		return client, nil
	})

	if err != nil {
		slog.Error("Failed to load mongo.Client.")
		return err
	}

	err = c.Singleton(func() (*db.MatchRequestRepository, error) {
		var client *mongo.Client
		if err := c.Resolve(&client); err != nil {
			return nil, err
		}

		var config common.Config
		if err := c.Resolve(&config); err != nil {
			return nil, err
		}

		return db.NewMatchRequestRepository(client, config.MongoDB.DBName), nil
	})

	if err != nil {
		slog.Error("Failed to load MatchRequestRepository.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (matchmaking_out.MatchRequestRepository, error) {
		var repo *db.MatchRequestRepository
		if err := c.Resolve(&repo); err != nil {
			return nil, err
		}
		return repo, nil
	})

	if err != nil {
		slog.Error("Failed to bind matchmaking_out.MatchRequestRepository.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (*db.LobbyRepository, error) {
		var client *mongo.Client
		if err := c.Resolve(&client); err != nil {
			return nil, err
		}

		var config common.Config
		if err := c.Resolve(&config); err != nil {
			return nil, err
		}

		return db.NewLobbyRepository(client, config.MongoDB.DBName), nil
	})

	if err != nil {
		slog.Error("Failed to load LobbyRepository.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (matchmaking_out.LobbyRepository, error) {
		var repo *db.LobbyRepository
		if err := c.Resolve(&repo); err != nil {
			return nil, err
		}
		return repo, nil
	})

	if err != nil {
		slog.Error("Failed to bind matchmaking_out.LobbyRepository.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (*db.ChatChannelRepository, error) {
		var client *mongo.Client
		if err := c.Resolve(&client); err != nil {
			return nil, err
		}

		var config common.Config
		if err := c.Resolve(&config); err != nil {
			return nil, err
		}

		return db.NewChatChannelRepository(client, config.MongoDB.DBName), nil
	})

	if err != nil {
		slog.Error("Failed to load ChatChannelRepository.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (matchmaking_out.ChatChannelRepository, error) {
		var repo *db.ChatChannelRepository
		if err := c.Resolve(&repo); err != nil {
			return nil, err
		}
		return repo, nil
	})

	if err != nil {
		slog.Error("Failed to bind matchmaking_out.ChatChannelRepository.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (*db.NotificationRepository, error) {
		var client *mongo.Client
		if err := c.Resolve(&client); err != nil {
			return nil, err
		}

		var config common.Config
		if err := c.Resolve(&config); err != nil {
			return nil, err
		}

		return db.NewNotificationRepository(client, config.MongoDB.DBName), nil
	})

	if err != nil {
		slog.Error("Failed to load NotificationRepository.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (matchmaking_out.NotificationRepository, error) {
		var repo *db.NotificationRepository
		if err := c.Resolve(&repo); err != nil {
			return nil, err
		}
		return repo, nil
	})

	if err != nil {
		slog.Error("Failed to bind matchmaking_out.NotificationRepository.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (*db.PreferencesRepository, error) {
		var client *mongo.Client
		if err := c.Resolve(&client); err != nil {
			return nil, err
		}

		var config common.Config
		if err := c.Resolve(&config); err != nil {
			return nil, err
		}

		return db.NewPreferencesRepository(client, config.MongoDB.DBName), nil
	})

	if err != nil {
		slog.Error("Failed to load PreferencesRepository.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (matchmaking_out.PreferencesRepository, error) {
		var repo *db.PreferencesRepository
		if err := c.Resolve(&repo); err != nil {
			return nil, err
		}
		return repo, nil
	})

	if err != nil {
		slog.Error("Failed to bind matchmaking_out.PreferencesRepository.", "err", err)
		panic(err)
	}

	return nil
}

// InjectMessaging wires the realtime push fabric (component I): the
// websocket Hub, the Kafka producer that relays its events across
// replicas, the consumer-side bridge that re-applies them, the AMQP
// notification dispatcher, the gRPC game catalogue client, and the HTTP
// player profile client.
func InjectMessaging(c container.Container) error {
	err := c.Singleton(func() *websocket.Hub {
		return websocket.NewHub()
	})

	if err != nil {
		slog.Error("Failed to load websocket.Hub.", "err", err)
		return err
	}

	err = c.Singleton(func() (matchmaking_out.EventPublisher, error) {
		var hub *websocket.Hub
		if err := c.Resolve(&hub); err != nil {
			return nil, err
		}
		return hub, nil
	})

	if err != nil {
		slog.Error("Failed to bind matchmaking_out.EventPublisher.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (*kafka.Client, error) {
		var config common.Config
		if err := c.Resolve(&config); err != nil {
			return nil, err
		}

		return kafka.NewClient(&kafka.Config{BootstrapServers: config.Kafka.Brokers})
	})

	if err != nil {
		slog.Error("Failed to load kafka.Client.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (*kafka.EventPublisher, error) {
		var client *kafka.Client
		if err := c.Resolve(&client); err != nil {
			return nil, err
		}
		return kafka.NewEventPublisher(client), nil
	})

	if err != nil {
		slog.Error("Failed to load kafka.EventPublisher.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (*kafka.HubRelayer, error) {
		var publisher *kafka.EventPublisher
		if err := c.Resolve(&publisher); err != nil {
			return nil, err
		}

		var hub *websocket.Hub
		if err := c.Resolve(&hub); err != nil {
			return nil, err
		}

		relayer := kafka.NewHubRelayer(publisher)
		hub.SetRelayer(relayer)

		return relayer, nil
	})

	if err != nil {
		slog.Error("Failed to wire kafka.HubRelayer into websocket.Hub.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (*kafka.WebSocketBridge, error) {
		var client *kafka.Client
		if err := c.Resolve(&client); err != nil {
			return nil, err
		}

		var hub *websocket.Hub
		if err := c.Resolve(&hub); err != nil {
			return nil, err
		}

		instanceID := os.Getenv("HOSTNAME")
		if instanceID == "" {
			instanceID = "local"
		}

		return kafka.NewWebSocketBridge(client, hub, instanceID), nil
	})

	if err != nil {
		slog.Error("Failed to load kafka.WebSocketBridge.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() *queueindex.InMemoryQueueIndex {
		return queueindex.New()
	})

	if err != nil {
		slog.Error("Failed to load queueindex.InMemoryQueueIndex.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (matchmaking_out.QueueIndex, error) {
		var index *queueindex.InMemoryQueueIndex
		if err := c.Resolve(&index); err != nil {
			return nil, err
		}
		return index, nil
	})

	if err != nil {
		slog.Error("Failed to bind matchmaking_out.QueueIndex.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (*amqp.Connection, error) {
		var config common.Config
		if err := c.Resolve(&config); err != nil {
			return nil, err
		}
		return amqp.Dial(config.AMQP.URL)
	})

	if err != nil {
		slog.Error("Failed to dial AMQP.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (*notifybus.Dispatcher, error) {
		var config common.Config
		if err := c.Resolve(&config); err != nil {
			return nil, err
		}
		return notifybus.NewDispatcher(config.AMQP.URL)
	})

	if err != nil {
		slog.Error("Failed to load notifybus.Dispatcher.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (matchmaking_out.NotificationDispatcher, error) {
		var dispatcher *notifybus.Dispatcher
		if err := c.Resolve(&dispatcher); err != nil {
			return nil, err
		}
		return dispatcher, nil
	})

	if err != nil {
		slog.Error("Failed to bind matchmaking_out.NotificationDispatcher.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (matchmaking_out.GameCatalogueClient, error) {
		var config common.Config
		if err := c.Resolve(&config); err != nil {
			return nil, err
		}
		return catalogue.NewClient(config.Catalogue.Target, config.Catalogue.Timeout)
	})

	if err != nil {
		slog.Error("Failed to load catalogue.Client.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() matchmaking_out.PlayerProfileClient {
		return profileclient.NewClient(os.Getenv("PLAYER_PROFILE_BASE_URL"))
	})

	if err != nil {
		slog.Error("Failed to load profileclient.Client.", "err", err)
		panic(err)
	}

	return nil
}

// InjectDomainServices wires the Coordinator, the Lobby state machine,
// Chat, and Notification services (spec §4.E/F/G/H) on top of the
// repositories and infra clients InjectMongoDB/InjectMessaging already
// registered.
func InjectDomainServices(c container.Container) error {
	err := c.Singleton(func() (*matchmaking_services.MatchmakingCoordinator, error) {
		var config common.Config
		if err := c.Resolve(&config); err != nil {
			return nil, err
		}

		var requests matchmaking_out.MatchRequestRepository
		if err := c.Resolve(&requests); err != nil {
			return nil, err
		}

		var lobbies matchmaking_out.LobbyRepository
		if err := c.Resolve(&lobbies); err != nil {
			return nil, err
		}

		var chats matchmaking_out.ChatChannelRepository
		if err := c.Resolve(&chats); err != nil {
			return nil, err
		}

		var queue matchmaking_out.QueueIndex
		if err := c.Resolve(&queue); err != nil {
			return nil, err
		}

		var gameCatalogue matchmaking_out.GameCatalogueClient
		if err := c.Resolve(&gameCatalogue); err != nil {
			return nil, err
		}

		var profiles matchmaking_out.PlayerProfileClient
		if err := c.Resolve(&profiles); err != nil {
			return nil, err
		}

		var publisher matchmaking_out.EventPublisher
		if err := c.Resolve(&publisher); err != nil {
			return nil, err
		}

		var notify matchmaking_in.CreateNotificationCommandHandler
		if err := c.Resolve(&notify); err != nil {
			return nil, err
		}

		cfg := matchmaking_services.CoordinatorConfig{
			MinGroupSize:       config.Matchmaking.MinGroupSize,
			RequestTTL:         config.Matchmaking.RequestTTL,
			TickInterval:       config.Matchmaking.TickInterval,
			RelaxationLevel1At: config.Matchmaking.RelaxationLevel1At,
			RelaxationLevel2At: config.Matchmaking.RelaxationLevel2At,
			RelaxationLevel3At: config.Matchmaking.RelaxationLevel3At,
		}

		return matchmaking_services.NewMatchmakingCoordinator(requests, lobbies, chats, queue, gameCatalogue, profiles, publisher, notify, cfg), nil
	})

	if err != nil {
		slog.Error("Failed to load MatchmakingCoordinator.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (*matchmaking_services.LobbyStateMachine, error) {
		var config common.Config
		if err := c.Resolve(&config); err != nil {
			return nil, err
		}

		var lobbies matchmaking_out.LobbyRepository
		if err := c.Resolve(&lobbies); err != nil {
			return nil, err
		}

		var chats matchmaking_out.ChatChannelRepository
		if err := c.Resolve(&chats); err != nil {
			return nil, err
		}

		var chatService *matchmaking_services.ChatService
		if err := c.Resolve(&chatService); err != nil {
			return nil, err
		}

		var publisher matchmaking_out.EventPublisher
		if err := c.Resolve(&publisher); err != nil {
			return nil, err
		}

		return matchmaking_services.NewLobbyStateMachine(lobbies, chats, chatService, publisher, config.Matchmaking.AutoStartDelay), nil
	})

	if err != nil {
		slog.Error("Failed to load LobbyStateMachine.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (*matchmaking_services.ChatService, error) {
		var channels matchmaking_out.ChatChannelRepository
		if err := c.Resolve(&channels); err != nil {
			return nil, err
		}

		var lobbies matchmaking_out.LobbyRepository
		if err := c.Resolve(&lobbies); err != nil {
			return nil, err
		}

		var publisher matchmaking_out.EventPublisher
		if err := c.Resolve(&publisher); err != nil {
			return nil, err
		}

		return matchmaking_services.NewChatService(channels, lobbies, publisher), nil
	})

	if err != nil {
		slog.Error("Failed to load ChatService.", "err", err)
		panic(err)
	}

	err = c.Singleton(func() (*matchmaking_services.NotificationService, error) {
		var notifications matchmaking_out.NotificationRepository
		if err := c.Resolve(&notifications); err != nil {
			return nil, err
		}

		var preferences matchmaking_out.PreferencesRepository
		if err := c.Resolve(&preferences); err != nil {
			return nil, err
		}

		var dispatcher matchmaking_out.NotificationDispatcher
		if err := c.Resolve(&dispatcher); err != nil {
			return nil, err
		}

		var publisher matchmaking_out.EventPublisher
		if err := c.Resolve(&publisher); err != nil {
			return nil, err
		}

		return matchmaking_services.NewNotificationService(notifications, preferences, dispatcher, publisher), nil
	})

	if err != nil {
		slog.Error("Failed to load NotificationService.", "err", err)
		panic(err)
	}

	return nil
}

func (b *ContainerBuilder) With(resolver interface{}) *ContainerBuilder {
	c := b.Container

	err := c.Singleton(resolver)

	if err != nil {
		slog.Error("Failed to register resolver.", "err", err)
		panic(err)
	}

	return b
}

// Resolve, Singleton, Transient and Scoped forward to the wrapped golobby
// container so ContainerBuilder satisfies the Container interface.
func (b *ContainerBuilder) Resolve(target interface{}) error {
	return b.Container.Resolve(target)
}

func (b *ContainerBuilder) Singleton(resolver interface{}) error {
	return b.Container.Singleton(resolver)
}

func (b *ContainerBuilder) Transient(resolver interface{}) error {
	return b.Container.Transient(resolver)
}

func (b *ContainerBuilder) Scoped(resolver interface{}) error {
	return b.Container.Scoped(resolver)
}
