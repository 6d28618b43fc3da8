package validators

import "go.mongodb.org/mongo-driver/bson"

var LocationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"name", "latitude", "longitude"},
		"properties": bson.M{
			"name":        bson.M{"bsonType": "string", "minLength": 2, "maxLength": 200},
			"latitude":    bson.M{"bsonType": "double", "minimum": -90, "maximum": 90},
			"longitude":   bson.M{"bsonType": "double", "minimum": -180, "maximum": 180},
			"hourly_rate": bson.M{"bsonType": []string{"double", "int", "long"}, "minimum": 0},
		},
	},
}

var PhotographerRateValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "hourly_rate"},
		"properties": bson.M{
			"_id":         bson.M{"bsonType": "string", "minLength": 1, "maxLength": 64},
			"hourly_rate": bson.M{"bsonType": []string{"double", "int", "long"}, "minimum": 0},
		},
	},
}
