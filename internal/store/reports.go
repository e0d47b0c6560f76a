package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Ashwin76038/civic-ai/internal/model"
)

// InsertReport persists a submitted report and returns its hex ID.
func (s *Store) InsertReport(ctx context.Context, report *model.Report) (string, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	report.CreatedAt = time.Now().UTC()
	result, err := s.reports.InsertOne(ctx, report)
	if err != nil {
		return "", fmt.Errorf("failed to insert report: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted ID type %T", result.InsertedID)
	}
	report.ID = id

	s.logger.Info("report stored",
		zap.String("id", id.Hex()),
		zap.String("type", report.IssueType),
		zap.Float64("ai_probability", report.AIProbability),
		zap.String("ai_severity", report.AISeverity))
	return id.Hex(), nil
}

// ListReports returns all stored reports, newest first.
func (s *Store) ListReports(ctx context.Context) ([]model.Report, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.reports.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer cursor.Close(ctx)

	reports := []model.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}
	return reports, nil
}
