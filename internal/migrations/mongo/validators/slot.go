package validators

import "go.mongodb.org/mongo-driver/bson"

const clockPattern = `^([01][0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9]$`

var SlotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"photographer_id", "day_of_week", "start_time", "end_time", "status"},
		"additionalProperties": true,

		"properties": bson.M{
			"photographer_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},
			"day_of_week": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  6,
			},
			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  clockPattern,
			},
			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  clockPattern,
			},
			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"Available", "Unavailable"},
			},
		},
	},
}
