package mqttlite

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Topic errors wrap ErrInvalidTopic.
var (
	ErrEmptyTopic         = fmt.Errorf("%w: topic cannot be empty", ErrInvalidTopic)
	ErrInvalidTopicName   = fmt.Errorf("%w: invalid topic name", ErrInvalidTopic)
	ErrInvalidTopicFilter = fmt.Errorf("%w: invalid topic filter", ErrInvalidTopic)
)

const (
	topicSeparator      = '/'
	singleLevelWildcard = '+'
	multiLevelWildcard  = '#'
)

// ValidateTopicName checks a topic a message is published to.
// Topic names are non-empty UTF-8 without wildcards or NUL.
func ValidateTopicName(topic string) error {
	if topic == "" {
		return ErrEmptyTopic
	}

	if !utf8.ValidString(topic) {
		return ErrInvalidTopicName
	}

	for _, r := range topic {
		if r == 0 || r == singleLevelWildcard || r == multiLevelWildcard {
			return ErrInvalidTopicName
		}
	}

	return nil
}

// ValidateTopicFilter checks a subscription filter. A '+' must fill a whole
// level; a '#' must fill the last level.
func ValidateTopicFilter(filter string) error {
	if filter == "" {
		return ErrEmptyTopic
	}

	if !utf8.ValidString(filter) || strings.IndexByte(filter, 0) >= 0 {
		return ErrInvalidTopicFilter
	}

	levels := strings.Split(filter, string(topicSeparator))

	for i, level := range levels {
		if strings.ContainsRune(level, singleLevelWildcard) && level != string(singleLevelWildcard) {
			return ErrInvalidTopicFilter
		}

		if strings.ContainsRune(level, multiLevelWildcard) {
			if level != string(multiLevelWildcard) || i != len(levels)-1 {
				return ErrInvalidTopicFilter
			}
		}
	}

	return nil
}

// TopicMatch reports whether a topic name matches a topic filter.
// Topics starting with '$' never match a leading wildcard.
func TopicMatch(filter, topic string) bool {
	if filter == "" || topic == "" {
		return false
	}

	if topic[0] == '$' && (filter[0] == singleLevelWildcard || filter[0] == multiLevelWildcard) {
		return false
	}

	return matchLevels(filter, topic)
}

// matchLevels walks filter and topic level by level without allocating.
func matchLevels(filter, topic string) bool {
	for {
		flevel, frest, fmore := strings.Cut(filter, string(topicSeparator))
		if flevel == string(multiLevelWildcard) {
			return true
		}

		tlevel, trest, tmore := strings.Cut(topic, string(topicSeparator))
		if flevel != string(singleLevelWildcard) && flevel != tlevel {
			return false
		}

		switch {
		case !fmore && !tmore:
			return true
		case !tmore:
			// "sport/#" also matches "sport"
			return frest == string(multiLevelWildcard)
		case !fmore:
			return false
		}

		filter, topic = frest, trest
	}
}
