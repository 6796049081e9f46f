package database

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	client     *mongo.Client
	once       sync.Once
	connectErr error

	FormCollection       *mongo.Collection
	SubmissionCollection *mongo.Collection
	UserCollection       *mongo.Collection
)

const DBName = "AirFormDB"

// ConnectMongoDB connects to MongoDB exactly once and binds the shared collections.
func ConnectMongoDB() error {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Warning: No .env file found")
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("❌ MONGO_URI environment variable not set. Please create a .env file and set it.")
	}

	once.Do(func() {
		clientOptions := options.Client().ApplyURI(mongoURI)

		client, connectErr = mongo.Connect(context.TODO(), clientOptions)
		if connectErr != nil {
			log.Fatal("❌ Failed to connect to MongoDB:", connectErr)
			return
		}

		connectErr = client.Ping(context.TODO(), readpref.Primary())
		if connectErr != nil {
			log.Fatal("❌ MongoDB ping failed:", connectErr)
			return
		}

		FormCollection = GetCollection(DBName, "forms")
		SubmissionCollection = GetCollection(DBName, "submissions")
		UserCollection = GetCollection(DBName, "users")

		if err := ensureIndexes(context.TODO()); err != nil {
			log.Fatal("❌ Failed to create indexes:", err)
			return
		}

		log.Println("✅ MongoDB connected successfully")
	})

	return connectErr
}

// ensureIndexes creates the unique link/slug indexes and the submission query
// indexes. The unique indexes are the real backstop against two concurrent
// form creations passing the in-memory slug check with the same candidate.
func ensureIndexes(ctx context.Context) error {
	_, err := FormCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shareableLink", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "customUrl", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "updatedAt", Value: -1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = SubmissionCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "formId", Value: 1}, {Key: "submittedAt", Value: -1}}},
		{Keys: bson.D{{Key: "formOwnerId", Value: 1}, {Key: "submittedAt", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// GetDatabase returns the application database handle.
func GetDatabase() *mongo.Database {
	if client == nil {
		log.Fatal("❌ MongoDB client is nil")
	}
	return client.Database(DBName)
}

// GetCollection returns a collection handle from MongoDB.
func GetCollection(dbName, collectionName string) *mongo.Collection {
	if client == nil {
		log.Fatal("❌ MongoDB client is nil")
	}
	return client.Database(dbName).Collection(collectionName)
}
