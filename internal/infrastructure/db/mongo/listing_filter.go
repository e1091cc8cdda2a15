package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campusnest/sublet-market/internal/core/ports"
)

// listingPredicates translates a normalized filter into independent
// predicates. The query matches documents satisfying all of them.
func listingPredicates(f ports.ListingFilter) []bson.M {
	var preds []bson.M

	if f.OwnerID != "" {
		preds = append(preds, bson.M{"owner_id": f.OwnerID})
	} else {
		preds = append(preds, bson.M{"published": true}, bson.M{"is_draft": false})
	}

	if f.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		preds = append(preds, bson.M{"$or": bson.A{
			bson.M{"title": rx},
			bson.M{"description": rx},
			bson.M{"address": rx},
		}})
	}

	preds = append(preds, bson.M{"price": bson.M{"$gte": f.MinPrice, "$lte": f.MaxPrice}})

	if f.Bedrooms != nil {
		if f.BedroomsAtLeast {
			preds = append(preds, bson.M{"bedrooms": bson.M{"$gte": *f.Bedrooms}})
		} else {
			preds = append(preds, bson.M{"bedrooms": *f.Bedrooms})
		}
	}

	if f.AvailableFrom != nil {
		preds = append(preds, bson.M{"available_from": bson.M{"$lte": *f.AvailableFrom}})
	}
	if f.AvailableUntil != nil {
		preds = append(preds, bson.M{"available_until": bson.M{"$gte": *f.AvailableUntil}})
	}

	if len(f.Amenities) > 0 {
		preds = append(preds, bson.M{"amenities": bson.M{"$all": f.Amenities}})
	}

	return preds
}

func listingQuery(f ports.ListingFilter) bson.M {
	return bson.M{"$and": listingPredicates(f)}
}

// listingSort orders newest first. _id breaks ties between listings created
// in the same millisecond so repeated queries page identically.
var listingSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
