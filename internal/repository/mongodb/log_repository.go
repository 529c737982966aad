package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	entity "github.com/codedpool/ReWear-Odoo/internal/domain"
)

const (
	collNotifications = "notifications"
	collStatusHistory = "status_history"
)

type LogRepository interface {
	SaveNotification(doc *entity.Notification) error
	SaveStatusHistory(doc *entity.StatusHistory) error
}

type logRepository struct {
	db *mongo.Database
}

func NewLogRepository(db *mongo.Database) LogRepository {
	return &logRepository{db: db}
}

func (r *logRepository) SaveNotification(doc *entity.Notification) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := r.db.Collection(collNotifications).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

func (r *logRepository) SaveStatusHistory(doc *entity.StatusHistory) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := r.db.Collection(collStatusHistory).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("inserting status history: %w", err)
	}
	return nil
}
