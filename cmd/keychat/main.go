package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"

	"github.com/layer-3/keychat/adapters/events"
	"github.com/layer-3/keychat/adapters/store"
	"github.com/layer-3/keychat/adapters/verifier"
	"github.com/layer-3/keychat/internal/config"
	"github.com/layer-3/keychat/ports"
	"github.com/layer-3/keychat/service"
	transporthttp "github.com/layer-3/keychat/transport/http"
	"github.com/layer-3/keychat/transport/sshd"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if settings.UnkeyRootKey == "" || settings.UnkeyAPIID == "" {
		log.Fatal("KEYCHAT_UNKEY_ROOT_KEY and KEYCHAT_UNKEY_API_ID must be set")
	}

	hostKey, err := sshd.LoadOrGenerateHostKey(settings.HostKeyPath)
	if err != nil {
		log.Fatalf("Failed to load host key: %v", err)
	}

	// Redis backs both the verdict cache and the presence stream when
	// configured; otherwise everything stays in-process.
	var verdictStore ports.VerdictStore
	var publisher message.Publisher
	logger := watermill.NewStdLogger(false, false)

	if settings.RedisURL != "" {
		opts, err := redis.ParseURL(settings.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)

		verdictStore = store.NewRedisStore(redisClient)
		publisher, err = redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client: redisClient,
			},
			logger,
		)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}
	} else {
		verdictStore = store.NewMemoryStore()
		publisher = gochannel.NewGoChannel(gochannel.Config{}, logger)
	}

	remoteVerifier := verifier.NewHTTPVerifier(settings.VerifierURL, settings.UnkeyRootKey, settings.UnkeyAPIID, settings.VerifierTimeout)
	verifyService := service.NewVerifyService(remoteVerifier, verdictStore, settings.ValidTTL, settings.DenyTTL)

	registry := service.NewRegistry()
	eventPub := events.NewWatermillPublisher(publisher)

	guard := sshd.NewAuthGuard(verifyService, settings.MaxAuthAttempts)
	server := sshd.NewServer(settings.ListenAddr, sshd.NewServerConfig(guard, hostKey), registry, eventPub)
	if err := server.Listen(); err != nil {
		log.Fatalf("Failed to start SSH server: %v", err)
	}
	go func() {
		if err := server.Serve(); err != nil {
			log.Fatalf("SSH server failed: %v", err)
		}
	}()

	router := transporthttp.SetupRouter(registry)
	go func() {
		if err := router.Run(settings.HTTPAddr); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Block until a shutdown signal is received.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Shutting down...")
	server.Close()
}
