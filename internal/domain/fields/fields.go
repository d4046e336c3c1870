package fields

import (
	"fmt"
	"strconv"
)

// MovieRuntime is a movie runtime in minutes. Fractional minutes are kept as loaded.
type MovieRuntime float64

func (m MovieRuntime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(fmt.Sprintf("%s mins", strconv.FormatFloat(float64(m), 'f', -1, 64)))), nil
}

// UserStatus mirrors the "status" enum type in the database.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusDeleted   UserStatus = "deleted"
	UserStatusSuspended UserStatus = "suspended"
)

// UserStatuses lists the declared values in enum order.
var UserStatuses = []UserStatus{UserStatusActive, UserStatusDeleted, UserStatusSuspended}

func (s UserStatus) Valid() bool {
	for _, v := range UserStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ListVisibility mirrors the "visibility" enum type in the database.
type ListVisibility string

const (
	ListVisibilityPublic  ListVisibility = "public"
	ListVisibilityPrivate ListVisibility = "private"
)

var ListVisibilities = []ListVisibility{ListVisibilityPublic, ListVisibilityPrivate}

func (v ListVisibility) Valid() bool {
	for _, lv := range ListVisibilities {
		if v == lv {
			return true
		}
	}
	return false
}

// Strings converts a slice of string-based enum values to plain strings.
func Strings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
