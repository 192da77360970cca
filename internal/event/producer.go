package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SakshamTolani/ProductPro/internal/domain"
	pkgkafka "github.com/SakshamTolani/ProductPro/pkg/kafka"
)

// Kafka topic constants for catalog domain events.
const (
	TopicProductCreated = "productpro.product.created"
	TopicProductUpdated = "productpro.product.updated"
	TopicProductDeleted = "productpro.product.deleted"

	TopicReviewSubmitted = "productpro.review.submitted"
	TopicReviewApproved  = "productpro.review.approved"
	TopicReviewRejected  = "productpro.review.rejected"
)

// Aggregate type constants.
const (
	AggregateTypeProduct = "product"
	AggregateTypeReview  = "review"
)

// Source identifier for events originating from this service.
const SourceCatalogService = "productpro"

// ProductEventData is the payload for product lifecycle events.
type ProductEventData struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	ImageURL    string `json:"image_url"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// ReviewEventData is the payload for review lifecycle events.
type ReviewEventData struct {
	ID        string                `json:"id"`
	ProductID string                `json:"product_id"`
	UserID    string                `json:"user_id"`
	Changes   domain.ProductChanges `json:"changes"`
	Status    string                `json:"status"`
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func (p *Producer) publishProduct(ctx context.Context, topic string, product *domain.Product) error {
	data := ProductEventData{
		ID:          product.ID,
		Title:       product.Title,
		Description: product.Description,
		PriceCents:  product.PriceCents,
		ImageURL:    product.ImageURL,
	}

	event, err := pkgkafka.NewEvent(topic, product.ID, AggregateTypeProduct, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published product event",
		slog.String("topic", topic),
		slog.String("product_id", product.ID),
	)

	return nil
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductCreated, product)
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductUpdated, product)
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	data := ProductDeletedData{ID: id}

	event, err := pkgkafka.NewEvent(TopicProductDeleted, id, AggregateTypeProduct, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create product.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductDeleted, event); err != nil {
		return fmt.Errorf("publish product.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.deleted event",
		slog.String("product_id", id),
	)

	return nil
}

func (p *Producer) publishReview(ctx context.Context, topic string, review *domain.Review) error {
	data := ReviewEventData{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Changes:   review.Changes,
		Status:    string(review.Status),
	}

	event, err := pkgkafka.NewEvent(topic, review.ID, AggregateTypeReview, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published review event",
		slog.String("topic", topic),
		slog.String("review_id", review.ID),
		slog.String("status", string(review.Status)),
	)

	return nil
}

// PublishReviewSubmitted publishes a review.submitted event.
func (p *Producer) PublishReviewSubmitted(ctx context.Context, review *domain.Review) error {
	return p.publishReview(ctx, TopicReviewSubmitted, review)
}

// PublishReviewApproved publishes a review.approved event.
func (p *Producer) PublishReviewApproved(ctx context.Context, review *domain.Review) error {
	return p.publishReview(ctx, TopicReviewApproved, review)
}

// PublishReviewRejected publishes a review.rejected event.
func (p *Producer) PublishReviewRejected(ctx context.Context, review *domain.Review) error {
	return p.publishReview(ctx, TopicReviewRejected, review)
}
