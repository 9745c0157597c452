package mongoadapter

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainerrors "threadmart/contexts/identity-access/account-service/domain/errors"
	"threadmart/contexts/identity-access/account-service/ports"
)

const usersCollection = "users"

type userDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	PhotoURL  string    `bson:"photoURL,omitempty"`
	Role      string    `bson:"role"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type Repository struct {
	users  *mongo.Collection
	logger *slog.Logger
}

func NewRepository(db *mongo.Database, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		users:  db.Collection(usersCollection),
		logger: logger,
	}
}

// EnsureIndexes creates the unique email index. Call once at startup.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *Repository) CreateUser(ctx context.Context, userID string, input ports.RegisterInput, now time.Time) (ports.Identity, error) {
	doc := userDocument{
		ID:        userID,
		Name:      input.Name,
		Email:     input.Email,
		PhotoURL:  input.PhotoURL,
		Role:      input.Role,
		Status:    ports.StatusPending,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ports.Identity{}, domainerrors.ErrEmailTaken
		}
		return ports.Identity{}, err
	}
	return doc.toIdentity(), nil
}

func (r *Repository) FindByID(ctx context.Context, userID string) (ports.Identity, error) {
	var doc userDocument
	err := r.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ports.Identity{}, domainerrors.ErrUserNotFound
		}
		return ports.Identity{}, err
	}
	return doc.toIdentity(), nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (ports.Identity, error) {
	var doc userDocument
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ports.Identity{}, domainerrors.ErrUserNotFound
		}
		return ports.Identity{}, err
	}
	return doc.toIdentity(), nil
}

func (r *Repository) ListUsers(ctx context.Context, filter ports.UserFilter) ([]ports.Identity, int64, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
		}
	}

	total, err := r.users.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetSkip(filter.Skip).
		SetLimit(filter.Limit)
	cursor, err := r.users.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	items := make([]ports.Identity, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toIdentity())
	}
	return items, total, nil
}

func (r *Repository) UpdateRole(ctx context.Context, userID string, role string, now time.Time) (ports.Identity, error) {
	return r.updateField(ctx, userID, bson.M{"role": role, "updatedAt": now.UTC()})
}

func (r *Repository) UpdateStatus(ctx context.Context, userID string, status string, now time.Time) (ports.Identity, error) {
	return r.updateField(ctx, userID, bson.M{"status": status, "updatedAt": now.UTC()})
}

func (r *Repository) updateField(ctx context.Context, userID string, fields bson.M) (ports.Identity, error) {
	var doc userDocument
	err := r.users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ports.Identity{}, domainerrors.ErrUserNotFound
		}
		return ports.Identity{}, err
	}
	return doc.toIdentity(), nil
}

func (d userDocument) toIdentity() ports.Identity {
	return ports.Identity{
		UserID:    d.ID,
		Name:      d.Name,
		Email:     d.Email,
		PhotoURL:  d.PhotoURL,
		Role:      d.Role,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
