package utils

import (
	"strings"

	"calctl/core/constants"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// GenerateEventID returns a short memorable id such as "evt-7d3f".
func GenerateEventID() string {
	suffix, err := gonanoid.Generate(constants.EventIDAlphabet, constants.EventIDLength)
	if err != nil {
		return ""
	}
	return constants.EventIDPrefix + suffix
}

// UniqueEventID generates ids until one is not in taken. The id space is
// small on purpose; collisions are expected and resolved here.
func UniqueEventID(taken map[string]bool) string {
	id := GenerateEventID()
	for id == "" || taken[id] {
		id = GenerateEventID()
	}
	return id
}

// ValidEventID reports whether s looks like an id this tool generated.
func ValidEventID(s string) bool {
	if !strings.HasPrefix(s, constants.EventIDPrefix) {
		return false
	}
	suffix := strings.TrimPrefix(s, constants.EventIDPrefix)
	if len(suffix) != constants.EventIDLength {
		return false
	}
	for _, r := range suffix {
		if !strings.ContainsRune(constants.EventIDAlphabet, r) {
			return false
		}
	}
	return true
}
