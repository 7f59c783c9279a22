package model

// All returns every persistence model in dependency order, for schema
// migration at startup. Parents come before children so the FK constraints
// resolve on first creation.
func All() []any {
	return []any{
		&UserModel{},
		&StoreModel{},
		&RatingModel{},
	}
}
