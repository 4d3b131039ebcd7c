package api

// Store list fields
const (
	FieldName          = "name"
	FieldAddress       = "address"
	FieldEmail         = "email"
	FieldRole          = "role"
	FieldOverallRating = "overall_rating"
	FieldUserRating    = "user_submitted_rating"
)

// StoreFilterFields are the free-text filters the store listing accepts
var StoreFilterFields = []string{FieldName, FieldAddress}

// StoreSortFields are the columns the server can sort stores by
var StoreSortFields = []string{FieldName, FieldAddress, FieldOverallRating}

// UserFilterFields are the filters of the admin user directory
var UserFilterFields = []string{FieldName, FieldEmail, FieldAddress, FieldRole}

// UserSortFields are the columns the server can sort users by
var UserSortFields = []string{FieldName, FieldEmail, FieldAddress, FieldRole}

// Query parameter names
const (
	ParamSortBy = "sort_by"
	ParamOrder  = "order"
	ParamPage   = "page"
	ParamLimit  = "limit"
)
