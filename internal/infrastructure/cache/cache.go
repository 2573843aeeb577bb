package cache

import (
	"strconv"
)

// Namespace groups cached values that are invalidated together.
type Namespace string

const (
	NamespaceSavedJobs     Namespace = "savedJobs"
	NamespaceAppliedJobs   Namespace = "appliedJobs"
	NamespaceUserStats     Namespace = "userStats"
	NamespacePlatformStats Namespace = "platformStats"
)

const keyPrefix = "jobtracker:"

// Key addresses one cached value. UserID 0 marks a global entry; Params
// distinguishes entries inside the same namespace and user.
type Key struct {
	Namespace Namespace
	UserID    int64
	Params    string
}

func (k Key) String() string {
	return namespacePrefix(k.Namespace, k.UserID) + k.Params
}

// namespacePrefix ends with a separator so user 1 never matches user 12.
func namespacePrefix(ns Namespace, userID int64) string {
	return keyPrefix + string(ns) + ":u" + strconv.FormatInt(userID, 10) + ":"
}
