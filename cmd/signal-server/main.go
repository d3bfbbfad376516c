package main

import (
	"log"

	"meeting-app-backend/internal/api"
	"meeting-app-backend/internal/api/router"
	"meeting-app-backend/internal/database"
	"meeting-app-backend/internal/env"
	"meeting-app-backend/internal/membership"
	"meeting-app-backend/internal/queue"
	"meeting-app-backend/internal/registry"
	"meeting-app-backend/internal/signaling"

	"github.com/joho/godotenv"
)

func newStore() (membership.Store, error) {
	switch backend := env.GetOrDefault(env.MembershipBackend, "redis"); backend {
	case "redis":
		return membership.NewRedisStore(
			env.MustGet(env.ChatRedisURL),
			env.Get(env.ChatRedisPass),
		)
	case "dynamo":
		db, err := database.NewDynamoDBClient()
		if err != nil {
			return nil, err
		}
		return membership.NewDynamoStore(db, env.GetOrDefault(env.RoomTable, "room_members")), nil
	case "memory":
		log.Println("membership: in-memory backend, state is lost on restart")
		return membership.NewMemoryStore(), nil
	default:
		log.Fatalf("unknown membership backend %q", backend)
		return nil, nil
	}
}

func main() {
	// Local development reads .env; deployed environments set real env vars.
	_ = godotenv.Load()

	store, err := newStore()
	if err != nil {
		log.Fatalf("membership store init failed: %v", err)
	}

	reg := registry.New()
	signalRouter := signaling.NewRouter(reg, store)
	notifyOffline := env.Get(env.SignalNotifyOffline) == "true"
	gateway := signaling.NewGateway(signalRouter, reg, store, notifyOffline)

	queueManager := queue.NewRequestQueueManager(10, 10)

	server := api.NewAPIServer(
		env.GetOrDefault(env.ListenAddr, ":18080"),
		queueManager,
		store,
		gateway,
		router.SignalingRoutes(),
		router.UtilsRoutes(),
		router.RoomRoutes("/api/v1"),
	)

	server.Run()
}
