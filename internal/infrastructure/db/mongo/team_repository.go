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

const collectionTeamMembers = "team_members"

type TeamMemberRepository struct {
	col *mongo.Collection
}

func NewTeamMemberRepository(db *mongo.Database) *TeamMemberRepository {
	return &TeamMemberRepository{col: db.Collection(collectionTeamMembers)}
}

func (r *TeamMemberRepository) FindByID(ctx context.Context, id string) (*domain.TeamMember, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *TeamMemberRepository) FindByRegistration(ctx context.Context, registration int64) (*domain.TeamMember, error) {
	return r.findOne(ctx, bson.M{"registration": registration})
}

func (r *TeamMemberRepository) findOne(ctx context.Context, filter bson.M) (*domain.TeamMember, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.TeamMember
	if err := r.col.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTeamMemberNotFound
		}
		return nil, fmt.Errorf("find team member: %w", err)
	}
	return &m, nil
}

func (r *TeamMemberRepository) ExistsByRegistration(ctx context.Context, registration int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"registration": registration}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count team members: %w", err)
	}
	return n > 0, nil
}

func (r *TeamMemberRepository) List(ctx context.Context) ([]*domain.TeamMember, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find team members: %w", err)
	}
	defer cur.Close(ctx)

	members := []*domain.TeamMember{}
	if err := cur.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("decode team members: %w", err)
	}
	return members, nil
}

func (r *TeamMemberRepository) Create(ctx context.Context, m *domain.TeamMember) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrTeamMemberExists
		}
		return fmt.Errorf("insert team member: %w", err)
	}
	return nil
}

func (r *TeamMemberRepository) Update(ctx context.Context, m *domain.TeamMember) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrTeamMemberExists
		}
		return fmt.Errorf("replace team member: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTeamMemberNotFound
	}
	return nil
}

func (r *TeamMemberRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete team member: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTeamMemberNotFound
	}
	return nil
}

func (r *TeamMemberRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "registration", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "registration", Value: 1}, {Key: "rfid", Value: 1}, {Key: "barcode", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
