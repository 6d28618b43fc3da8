package validators

import (
	"go.mongodb.org/mongo-driver/bson"

	"snaplink/pkg/model"
)

func bookingStatuses() []string {
	out := make([]string, 0, len(model.AllBookingStatuses))
	for _, s := range model.AllBookingStatuses {
		out = append(out, string(s))
	}
	return out
}

var externalLocation = bson.M{
	"bsonType": "object",
	"required": []string{"name", "address", "latitude", "longitude"},
	"properties": bson.M{
		"name":      bson.M{"bsonType": "string", "minLength": 2, "maxLength": 200},
		"address":   bson.M{"bsonType": "string", "minLength": 2, "maxLength": 300},
		"latitude":  bson.M{"bsonType": "double", "minimum": -90, "maximum": 90},
		"longitude": bson.M{"bsonType": "double", "minimum": -180, "maximum": 180},
	},
}

// BookingValidator is applied with validationLevel moderate so documents
// still carrying legacy status labels can be normalised in place.
var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"photographer_id",
			"start_datetime",
			"end_datetime",
			"status",
			"total_price",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"photographer_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"location_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"external_location": externalLocation,

			"start_datetime": bson.M{
				"bsonType": "date",
			},

			"end_datetime": bson.M{
				"bsonType": "date",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     bookingStatuses(),
			},

			"total_price": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"escrow_balance": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
