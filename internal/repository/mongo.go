package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hramlk99k/library-api/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	codeNamespaceExists          = 48
	codeDocumentValidationFailed = 121
)

type bookDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Title           string             `bson:"title"`
	Author          string             `bson:"author"`
	PublicationYear *int               `bson:"publicationYear"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func (d bookDocument) toModel() model.Book {
	return model.Book{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Author:          d.Author,
		PublicationYear: d.PublicationYear,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
}

type MongoBookRepository struct {
	db   *mongo.Database
	name string
	coll *mongo.Collection
}

func NewMongoBookRepository(db *mongo.Database, collection string) *MongoBookRepository {
	return &MongoBookRepository{
		db:   db,
		name: collection,
		coll: db.Collection(collection),
	}
}

// bookSchema mirrors the book rules as a collection validator so documents
// written around the API are held to the same shape.
func bookSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "author", "createdAt", "updatedAt"},
			"properties": bson.M{
				"title":           bson.M{"bsonType": "string", "minLength": 1},
				"author":          bson.M{"bsonType": "string", "minLength": 1},
				"publicationYear": bson.M{"bsonType": bson.A{"int", "long", "null"}, "minimum": 1000},
				"createdAt":       bson.M{"bsonType": "date"},
				"updatedAt":       bson.M{"bsonType": "date"},
			},
		},
	}
}

// EnsureSchema creates the collection with its validator, or updates the
// validator of an existing one, and indexes the sort key.
func (r *MongoBookRepository) EnsureSchema(ctx context.Context) error {
	err := r.db.CreateCollection(ctx, r.name, options.CreateCollection().SetValidator(bookSchema()))
	if err != nil {
		var se mongo.ServerError
		if !errors.As(err, &se) || !se.HasErrorCode(codeNamespaceExists) {
			return fmt.Errorf("create collection %s: %w", r.name, err)
		}

		cmd := bson.D{
			{Key: "collMod", Value: r.name},
			{Key: "validator", Value: bookSchema()},
		}
		if err := r.db.RunCommand(ctx, cmd).Err(); err != nil {
			return fmt.Errorf("update validator for %s: %w", r.name, err)
		}
	}

	_, err = r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "title", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("index %s.title: %w", r.name, err)
	}
	return nil
}

func (r *MongoBookRepository) Create(ctx context.Context, book *model.Book) error {
	stamp := model.NextUpdateTime(time.Time{}, time.Now())

	doc := bookDocument{
		ID:              primitive.NewObjectID(),
		Title:           book.Title,
		Author:          book.Author,
		PublicationYear: book.PublicationYear,
		CreatedAt:       stamp,
		UpdatedAt:       stamp,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return classifyMongoError(err)
	}

	*book = doc.toModel()
	return nil
}

func (r *MongoBookRepository) List(ctx context.Context) ([]model.Book, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}, {Key: "createdAt", Value: 1}})

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	var docs []bookDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	books := make([]model.Book, 0, len(docs))
	for _, d := range docs {
		books = append(books, d.toModel())
	}
	return books, nil
}

func (r *MongoBookRepository) FindByID(ctx context.Context, id string) (*model.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc bookDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find book %s: %w", id, err)
	}

	book := doc.toModel()
	return &book, nil
}

func (r *MongoBookRepository) Update(ctx context.Context, book *model.Book) (*model.Book, error) {
	oid, err := primitive.ObjectIDFromHex(book.ID)
	if err != nil {
		return nil, ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":           book.Title,
		"author":          book.Author,
		"publicationYear": book.PublicationYear,
		"updatedAt":       model.NextUpdateTime(book.UpdatedAt, time.Now()),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc bookDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, classifyMongoError(err)
	}

	updated := doc.toModel()
	return &updated, nil
}

func (r *MongoBookRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	return nil
}

func (r *MongoBookRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, readpref.Primary())
}

func classifyMongoError(err error) error {
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(codeDocumentValidationFailed) {
		return fmt.Errorf("%w: document failed validation", ErrConstraint)
	}
	return fmt.Errorf("write book: %w", err)
}
