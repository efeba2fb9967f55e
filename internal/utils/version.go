package utils

import "regexp"

var clientVersionPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+){0,3}$`)

// ValidClientVersion reports whether a client-reported version string has
// the dotted-numeric form the mobile client sends (e.g. "1.4.2").
func ValidClientVersion(version string) bool {
	return clientVersionPattern.MatchString(version)
}
