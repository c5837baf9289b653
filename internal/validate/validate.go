// Package validate contains simple input validation helpers.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// usernameRe enforces a conservative username pattern.
var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,63}$`)

const (
	maxTopicNameLen    = 200
	maxEntryContentLen = 64 * 1024
)

// Username validates a username string for length and allowed characters.
func Username(s string) error {
	if !usernameRe.MatchString(s) {
		return errors.New("invalid username")
	}
	return nil
}

// TopicName validates a topic name: non-blank, valid UTF-8, bounded length.
func TopicName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("topic name is required")
	}
	if !utf8.ValidString(s) || utf8.RuneCountInString(s) > maxTopicNameLen {
		return errors.New("invalid topic name")
	}
	return nil
}

// EntryContent validates entry text: non-blank, valid UTF-8, bounded size.
func EntryContent(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("entry content is required")
	}
	if !utf8.ValidString(s) || len(s) > maxEntryContentLen {
		return errors.New("invalid entry content")
	}
	return nil
}
