package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

const collectionApprovers = "approvers"

type ApproverRepository struct {
	col *mongo.Collection
}

func NewApproverRepository(db *mongo.Database) *ApproverRepository {
	return &ApproverRepository{col: db.Collection(collectionApprovers)}
}

func (r *ApproverRepository) FindByID(ctx context.Context, id string) (*domain.Approver, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ApproverRepository) FindByRegistration(ctx context.Context, registration int64) (*domain.Approver, error) {
	return r.findOne(ctx, bson.M{"registration": registration})
}

func (r *ApproverRepository) findOne(ctx context.Context, filter bson.M) (*domain.Approver, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Approver
	if err := r.col.FindOne(ctx, filter).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApproverNotFound
		}
		return nil, fmt.Errorf("find approver: %w", err)
	}
	return &a, nil
}

func (r *ApproverRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Approver, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find approvers: %w", err)
	}
	defer cur.Close(ctx)

	approvers := []*domain.Approver{}
	if err := cur.All(ctx, &approvers); err != nil {
		return nil, fmt.Errorf("decode approvers: %w", err)
	}
	return approvers, nil
}

func (r *ApproverRepository) Create(ctx context.Context, a *domain.Approver) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrApproverExists
		}
		return fmt.Errorf("insert approver: %w", err)
	}
	return nil
}

func (r *ApproverRepository) Update(ctx context.Context, a *domain.Approver) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return fmt.Errorf("replace approver: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrApproverNotFound
	}
	return nil
}

func (r *ApproverRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "registration", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "active", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
