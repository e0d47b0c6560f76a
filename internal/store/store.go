// Package store persists reports and user accounts in MongoDB. The
// classifier core only contributes the ai_probability and ai_severity
// fields of a report; everything else is owned here.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Sentinel errors surfaced to the HTTP layer.
var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const (
	reportsCollection = "issues"
	usersCollection   = "users"
)

// Store wraps one MongoDB database holding the reports and users
// collections.
type Store struct {
	client  *mongo.Client
	reports *mongo.Collection
	users   *mongo.Collection
	timeout time.Duration
	logger  *zap.Logger
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri, database string, timeout time.Duration, logger *zap.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("MongoDB ping failed: %w", err)
	}

	db := client.Database(database)
	logger.Info("connected to MongoDB", zap.String("database", database))

	return &Store{
		client:  client,
		reports: db.Collection(reportsCollection),
		users:   db.Collection(usersCollection),
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}
