package util

import "regexp"

// objectIDRegex matches the 24 character hexadecimal identifiers the admin API
// uses for every document (users, companies, jobs, applications).
var objectIDRegex = regexp.MustCompile(`^[a-fA-F0-9]{24}$`)

// IsValidObjectID checks if a string looks like an admin API document identifier.
func IsValidObjectID(s string) bool {
	return objectIDRegex.MatchString(s)
}

const shortIDLength = 8

// ShortID returns the trailing characters of an identifier for compact table
// output. Identifiers shorter than the abbreviation are returned unchanged.
func ShortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[len(id)-shortIDLength:]
}
