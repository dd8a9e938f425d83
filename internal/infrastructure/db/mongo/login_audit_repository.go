package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/image-ehr/clinic-console/internal/core/domain"
)

const auditCollection = "login_logs"

// LoginAuditRepository persists the console login audit trail.
type LoginAuditRepository struct {
	coll *mongo.Collection
}

func NewLoginAuditRepository(db *mongo.Database) *LoginAuditRepository {
	return &LoginAuditRepository{coll: db.Collection(auditCollection)}
}

type loginAttemptDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	IP        string             `bson:"ip_address"`
	UserAgent string             `bson:"user_agent,omitempty"`
	Success   bool               `bson:"success"`
	Reason    string             `bson:"reason,omitempty"`
	At        int64              `bson:"at"`
}

// Record inserts one attempt. No uniqueness: the trail is append-only.
func (r *LoginAuditRepository) Record(ctx context.Context, attempt *domain.LoginAttempt) error {
	doc := loginAttemptDoc{
		Username:  attempt.Username,
		IP:        attempt.IP,
		UserAgent: attempt.UserAgent,
		Success:   attempt.Success,
		Reason:    attempt.Reason,
		At:        attempt.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert login attempt: %w", err)
	}
	return nil
}

// List returns attempts newest first, optionally filtered by username,
// together with the total matching count for paging.
func (r *LoginAuditRepository) List(ctx context.Context, username string, limit, offset int64) ([]domain.LoginAttempt, int64, error) {
	filter := bson.M{}
	if username != "" {
		filter["username"] = username
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count login attempts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find login attempts: %w", err)
	}
	defer cursor.Close(ctx)

	var attempts []domain.LoginAttempt
	for cursor.Next(ctx) {
		var doc loginAttemptDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode login attempt: %w", err)
		}
		attempts = append(attempts, domain.LoginAttempt{
			ID:        doc.ID.Hex(),
			Username:  doc.Username,
			IP:        doc.IP,
			UserAgent: doc.UserAgent,
			Success:   doc.Success,
			Reason:    doc.Reason,
			At:        time.Unix(doc.At, 0).UTC(),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate login attempts: %w", err)
	}

	return attempts, total, nil
}
