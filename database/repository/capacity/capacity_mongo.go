package capacityRepo

import (
	"villacarmen/config"
	"villacarmen/database"

	"go.mongodb.org/mongo-driver/mongo"
)

type mongoCapacityRepo struct {
	overrides *mongo.Collection
	budgets   *mongo.Collection
	hours     *mongo.Collection
}

// NewMongoCapacityRepo returns a new CapacityRepository instance using MongoDB.
func NewMongoCapacityRepo() CapacityRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoCapacityRepo{
		overrides: db.Collection("day_overrides"),
		budgets:   db.Collection("day_budgets"),
		hours:     db.Collection("day_hour_configs"),
	}
}
