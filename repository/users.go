package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yakir1992/todoapp/model"
	"github.com/yakir1992/todoapp/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func GetUsersRepo(db *mongo.Database, collection string) *UsersRepo {
	return &UsersRepo{
		MongoCollection: db.Collection(collection),
	}
}

type UsersRepo struct {
	MongoCollection *mongo.Collection
}

// AddUser stores a new account. Emails are unique; a collision comes back
// as ErrEmailExists.
func (r *UsersRepo) AddUser(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	if user.UserID == "" || user.Email == "" || user.Password == "" {
		utils.TrackError("database", "invalid_user_data")
		return errors.New("user id, email and password required")
	}

	user.Email = normalizeEmail(user.Email)
	if _, err := r.MongoCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		utils.TrackError("database", "user_creation_failed")
		return fmt.Errorf("failed to add user to database: %w", err)
	}
	return nil
}

// FindUserByEmail returns nil, nil when no account matches.
func (r *UsersRepo) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, err
	}
	return &user, nil
}

func (r *UsersRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.TrackError("database", "user_not_found")
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, err
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
