package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

const actorCollection = "actors"

// ActorRepository reads the actor registry maintained by the identity service.
type ActorRepository struct {
	coll *mongo.Collection
}

func NewActorRepository(db *mongo.Database) *ActorRepository {
	return &ActorRepository{coll: db.Collection(actorCollection)}
}

// mongoActor keys actors by registration.
type mongoActor struct {
	Registration int64  `bson:"_id"`
	Name         string `bson:"name"`
	Username     string `bson:"username"`
	Sector       string `bson:"sector"`
	Function     string `bson:"function"`
	Level        string `bson:"level"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (r *ActorRepository) FindByRegistration(ctx context.Context, registration int64) (*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoActor
	if err := r.coll.FindOne(ctx, bson.M{"_id": registration}).Decode(&ma); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrActorNotFound
		}
		return nil, fmt.Errorf("find actor: %w", err)
	}

	return &domain.Actor{
		Registration: ma.Registration,
		Name:         ma.Name,
		Username:     ma.Username,
		Sector:       ma.Sector,
		Function:     ma.Function,
		Level:        ma.Level,
		UpdatedAt:    unixToTime(ma.UpdatedAt),
	}, nil
}

func (r *ActorRepository) Upsert(ctx context.Context, a *domain.Actor) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoActor{
		Registration: a.Registration,
		Name:         a.Name,
		Username:     a.Username,
		Sector:       a.Sector,
		Function:     a.Function,
		Level:        a.Level,
		UpdatedAt:    a.UpdatedAt.Unix(),
	}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": a.Registration}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert actor: %w", err)
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
