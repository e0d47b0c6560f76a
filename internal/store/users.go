package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ashwin76038/civic-ai/internal/model"
)

// CreateUser registers a new account with a bcrypt-hashed password.
// Returns ErrUserExists when the email is already registered.
func (s *Store) CreateUser(ctx context.Context, user *model.User, password string) (string, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	err := s.users.FindOne(ctx, bson.M{"email": user.Email}).Err()
	if err == nil {
		return "", ErrUserExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return "", fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	result, err := s.users.InsertOne(ctx, user)
	if err != nil {
		return "", fmt.Errorf("failed to insert user: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted ID type %T", result.InsertedID)
	}
	user.ID = id

	s.logger.Info("user registered", zap.String("id", id.Hex()))
	return id.Hex(), nil
}

// Authenticate verifies an email/password pair. Both unknown emails and
// wrong passwords collapse into ErrInvalidCredentials.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var user model.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
