package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/model"
	"github.com/yakir1992/todoapp/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TodosRepo struct {
	MongoCollection *mongo.Collection
	// IndexFallback serves range queries from a user-only scan when the
	// date-range index is missing.
	IndexFallback bool
	Logger        *slog.Logger
}

func GetTodosRepo(db *mongo.Database, collection string, indexFallback bool, logger *slog.Logger) *TodosRepo {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &TodosRepo{
		MongoCollection: db.Collection(collection),
		IndexFallback:   indexFallback,
		Logger:          logger,
	}
}

// CreateTodo inserts a todo; the caller allocates TodoID.
func (r *TodosRepo) CreateTodo(ctx context.Context, todo *model.Todo) error {
	timer := utils.TrackDBOperation("insert", "todos")
	defer timer.ObserveDuration()

	if todo.UserID == "" {
		utils.TrackError("database", "missing_user_id")
		return ErrUserIDRequired
	}

	if _, err := r.MongoCollection.InsertOne(ctx, todo); err != nil {
		utils.TrackError("database", "todo_creation_failed")
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

// GetTodosInRange returns the user's todos dated within [start, end]
// inclusive, ordered by date then creation time.
func (r *TodosRepo) GetTodosInRange(ctx context.Context, userID, start, end string) ([]*model.Todo, error) {
	timer := utils.TrackDBOperation("find_range", "todos")
	defer timer.ObserveDuration()

	filter := bson.M{
		"user_id":     userID,
		"date":        bson.M{"$gte": start, "$lte": end},
		"is_test_doc": bson.M{"$ne": true},
	}
	opts := options.Find().
		SetHint(DateRangeIndexName).
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})

	todos, err := r.find(ctx, filter, opts)
	if err == nil {
		return todos, nil
	}
	if !isIndexError(err) {
		utils.TrackError("database", "todo_fetch_failed")
		return nil, fmt.Errorf("query todos %s..%s: %w", start, end, err)
	}

	r.Logger.Warn("range query needs an index",
		"index", DateRangeIndexName,
		"remediation", IndexRemediation,
		"error", err)
	utils.TrackError("database", "index_missing")

	if !r.IndexFallback {
		return nil, fmt.Errorf("%w: %v", ErrIndexMissing, err)
	}

	all, ferr := r.GetUserTodos(ctx, userID)
	if ferr != nil {
		return nil, fmt.Errorf("%w: fallback query failed: %v", ErrIndexMissing, ferr)
	}
	utils.IndexFallbacks.Inc()

	inRange := make([]*model.Todo, 0, len(all))
	for _, t := range all {
		if t.Date >= start && t.Date <= end {
			inRange = append(inRange, t)
		}
	}
	sort.SliceStable(inRange, func(i, j int) bool {
		if inRange[i].Date != inRange[j].Date {
			return inRange[i].Date < inRange[j].Date
		}
		return inRange[i].CreatedAt.Before(inRange[j].CreatedAt)
	})
	return inRange, nil
}

// GetUserTodos retrieves every todo belonging to the user.
func (r *TodosRepo) GetUserTodos(ctx context.Context, userID string) ([]*model.Todo, error) {
	timer := utils.TrackDBOperation("find", "todos")
	defer timer.ObserveDuration()

	return r.find(ctx, bson.M{"user_id": userID, "is_test_doc": bson.M{"$ne": true}})
}

// UpdateTodo applies a partial update and returns the stored result.
func (r *TodosRepo) UpdateTodo(ctx context.Context, todoID, userID string, updates dto.TodoUpdate) (*model.Todo, error) {
	timer := utils.TrackDBOperation("update", "todos")
	defer timer.ObserveDuration()

	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	if updates.Text != nil {
		set["text"] = *updates.Text
	}
	if updates.Completed != nil {
		set["completed"] = *updates.Completed
	}
	if updates.Date != nil {
		set["date"] = *updates.Date
	}
	if updates.Color != nil {
		if *updates.Color == model.ColorNone {
			unset["color"] = ""
		} else {
			set["color"] = *updates.Color
		}
	}
	switch {
	case updates.ClearRecurring:
		unset["recurring"] = ""
	case updates.Recurring != nil:
		set["recurring"] = updates.Recurring
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var todo model.Todo
	err := r.MongoCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": todoID, "user_id": userID}, update, opts).Decode(&todo)
	if err == mongo.ErrNoDocuments {
		utils.TrackError("database", "todo_not_found")
		return nil, ErrTodoNotFound
	}
	if err != nil {
		utils.TrackError("database", "todo_update_failed")
		return nil, fmt.Errorf("update todo %s: %w", todoID, err)
	}
	return &todo, nil
}

// DeleteTodo removes a specific todo from database
func (r *TodosRepo) DeleteTodo(ctx context.Context, todoID, userID string) error {
	timer := utils.TrackDBOperation("delete", "todos")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": todoID, "user_id": userID})
	if err != nil {
		utils.TrackError("database", "todo_deletion_failed")
		return fmt.Errorf("delete todo %s: %w", todoID, err)
	}
	if result.DeletedCount == 0 {
		utils.TrackError("database", "todo_not_found")
		return ErrTodoNotFound
	}
	return nil
}

// TestConnectivity reads one document, then writes and deletes a throwaway
// probe to prove the collection is writable.
func (r *TodosRepo) TestConnectivity(ctx context.Context) error {
	timer := utils.TrackDBOperation("probe", "todos")
	defer timer.ObserveDuration()

	if err := r.MongoCollection.FindOne(ctx, bson.M{}).Err(); err != nil && err != mongo.ErrNoDocuments {
		return fmt.Errorf("read probe: %w", err)
	}

	now := time.Now().UTC()
	probe := model.Todo{
		TodoID:    utils.GenerateID(),
		Text:      "Test connection",
		Date:      now.Format(utils.DateLayout),
		CreatedAt: now,
		UpdatedAt: now,
		IsTestDoc: true,
	}
	if _, err := r.MongoCollection.InsertOne(ctx, probe); err != nil {
		return fmt.Errorf("write probe: %w", err)
	}
	if _, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": probe.TodoID}); err != nil {
		return fmt.Errorf("delete probe: %w", err)
	}
	return nil
}

func (r *TodosRepo) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*model.Todo, error) {
	cursor, err := r.MongoCollection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	todos := []*model.Todo{}
	if err = cursor.All(ctx, &todos); err != nil {
		utils.TrackError("database", "todo_decode_failed")
		return nil, err
	}
	return todos, nil
}
