package bookingRepo

import (
	"villacarmen/config"
	"villacarmen/database"

	"go.mongodb.org/mongo-driver/mongo"
)

type mongoBookingRepo struct {
	coll    *mongo.Collection
	archive *mongo.Collection
}

// NewMongoBookingRepo returns a new BookingRepository instance using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoBookingRepo{
		coll:    db.Collection("bookings"),
		archive: db.Collection("bookings_archive"),
	}
}
