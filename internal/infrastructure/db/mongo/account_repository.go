package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devmatch/account-service/internal/core/domain"
	"github.com/devmatch/account-service/internal/core/ports"
)

const (
	accountsCollection = "users"

	emailIndex   = "email_live_unique"
	contactIndex = "contact_number_live_unique"
)

type AccountRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountsCollection), now: time.Now}
}

type mongoAccount struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	FirstName          string             `bson:"first_name"`
	LastName           string             `bson:"last_name"`
	Age                int                `bson:"age"`
	ContactNumber      string             `bson:"contact_number"`
	Email              string             `bson:"email"`
	Password           string             `bson:"password"`
	ProfilePicture     string             `bson:"profile_picture"`
	CoverPicture       string             `bson:"cover_picture"`
	Bio                string             `bson:"bio"`
	Location           string             `bson:"location,omitempty"`
	PrimaryRole        string             `bson:"primary_role"`
	YearsOfExperience  int                `bson:"years_of_experience"`
	Skills             []string           `bson:"skills"`
	SocialLinks        map[string]string  `bson:"social_links,omitempty"`
	CollaborationStyle string             `bson:"collaboration_style,omitempty"`
	StatusDeleted      string             `bson:"status_deleted"`
	CreatedAt          time.Time          `bson:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at"`
}

// EnsureIndexes creates the uniqueness and lookup indexes on the accounts
// collection. Email and contact number are unique among live accounts only,
// so an address freed by a soft delete can be registered again.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	live := bson.M{"status_deleted": string(domain.StatusNew)}
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(emailIndex).SetUnique(true).SetPartialFilterExpression(live),
		},
		{
			Keys:    bson.D{{Key: "contact_number", Value: 1}},
			Options: options.Index().SetName(contactIndex).SetUnique(true).SetPartialFilterExpression(live),
		},
		{Keys: bson.D{{Key: "status_deleted", Value: 1}}},
		{Keys: bson.D{{Key: "age", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *AccountRepository) Insert(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoAccount(account)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKey(err)
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string, opts ports.FindOptions) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid}, opts)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string, opts ports.FindOptions) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)}, opts)
}

func (r *AccountRepository) List(ctx context.Context, opts ports.FindOptions) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, visibility(bson.M{}, opts),
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoAccount
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}

	out := make([]*domain.Account, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *AccountRepository) UpdateByID(ctx context.Context, id string, patch domain.AccountPatch) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := patchToSet(patch)
	set["updated_at"] = r.now().UTC()

	filter := visibility(bson.M{"_id": oid}, ports.FindOptions{})
	var doc mongoAccount
	err = r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKey(err)
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M, opts ports.FindOptions) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAccount
	if err := r.coll.FindOne(ctx, visibility(filter, opts)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

// visibility adds the soft-delete exclusion unless the caller asked for deleted records.
func visibility(filter bson.M, opts ports.FindOptions) bson.M {
	if !opts.IncludeDeleted {
		filter["status_deleted"] = bson.M{"$ne": string(domain.StatusDeleted)}
	}
	return filter
}

func duplicateKey(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, emailIndex):
		return &domain.DuplicateKeyError{Field: "email"}
	case strings.Contains(msg, contactIndex):
		return &domain.DuplicateKeyError{Field: "contactNumber"}
	default:
		return &domain.DuplicateKeyError{}
	}
}
