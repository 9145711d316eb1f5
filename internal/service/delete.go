package service

import (
	"database/sql"

	"github.com/alexis-sammut/fittrack/internal/engine"
)

// DeleteItem removes one workout, meal or mood. Failures are reported in
// the result rather than as an error.
func DeleteItem(db *sql.DB, req engine.DeleteRequest) engine.DeleteResult {
	if err := req.Validate(); err != nil {
		return engine.DeleteResult{Success: false, Message: err.Error()}
	}
	var err error
	switch normalizeName(req.ItemType) {
	case engine.ItemWorkout:
		err = DeleteWorkout(db, req.ItemID)
	case engine.ItemMeal:
		err = DeleteMeal(db, req.ItemID)
	case engine.ItemMood:
		err = DeleteMood(db, req.ItemID)
	}
	if err != nil {
		return engine.DeleteResult{Success: false, Message: err.Error()}
	}
	return engine.DeleteResult{Success: true}
}
