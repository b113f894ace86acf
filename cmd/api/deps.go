package main

import (
	"context"
	"log"

	"bytebank/internal/infrastructure/postgres"
	httphandlers "bytebank/internal/interfaces/http"
	"bytebank/internal/shared/auth"
	"bytebank/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	TransactionHandler *httphandlers.TransactionHandler

	// Auth
	JWT *auth.JWT
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	userRepo := postgres.NewUserRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	jwt := auth.NewJWT(cfg.JWT.Secret)

	return &Dependencies{
		DB:                 db,
		AuthHandler:        httphandlers.NewAuthHandler(userRepo, jwt),
		TransactionHandler: httphandlers.NewTransactionHandler(transactionRepo),
		JWT:                jwt,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
