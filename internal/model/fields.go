package model

// UserField identifies one requestable user statistic. The set of fields is
// closed at compile time; unknown request strings never become a UserField.
type UserField string

const (
	FieldUserID              UserField = "userID"
	FieldUserName            UserField = "userName"
	FieldMinutesSaved        UserField = "minutesSaved"
	FieldSegmentCount        UserField = "segmentCount"
	FieldIgnoredSegmentCount UserField = "ignoredSegmentCount"
	FieldViewCount           UserField = "viewCount"
	FieldIgnoredViewCount    UserField = "ignoredViewCount"
	FieldWarnings            UserField = "warnings"
	FieldWarningReason       UserField = "warningReason"
	FieldReputation          UserField = "reputation"
	FieldVIP                 UserField = "vip"
	FieldLastSegmentID       UserField = "lastSegmentID"
	FieldBanned              UserField = "banned"
	FieldPermissions         UserField = "permissions"
	FieldFreeChaptersAccess  UserField = "freeChaptersAccess"
)

// DefaultUserFields is the field set served when the caller requests none.
func DefaultUserFields() []UserField {
	return []UserField{
		FieldUserID, FieldUserName, FieldMinutesSaved, FieldSegmentCount,
		FieldIgnoredSegmentCount, FieldViewCount, FieldIgnoredViewCount,
		FieldWarnings, FieldWarningReason, FieldReputation,
		FieldVIP, FieldLastSegmentID,
	}
}

// AllUserFields is the full requestable superset, defaults plus the elevated
// fields.
func AllUserFields() []UserField {
	return append(DefaultUserFields(),
		FieldBanned, FieldPermissions, FieldFreeChaptersAccess)
}
