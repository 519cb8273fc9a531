package webhook

import "github.com/stretchr/testify/mock"

// MatchTask creates a custom matcher for task arguments in mocks
func MatchTask(matcher func(Task) bool) interface{} {
	return mock.MatchedBy(matcher)
}
