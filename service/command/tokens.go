package command

import (
	"strings"

	"github.com/viant/chatapproval/model"
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	actionCode
	orderIDCode
	reasonCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	actionToken     = parsly.NewToken(actionCode, "APPROVE|REJECT", newActionMatcher(model.ActionApprove, model.ActionReject))
	orderIDToken    = parsly.NewToken(orderIDCode, "OrderID", &orderIDMatcher{})
	reasonToken     = parsly.NewToken(reasonCode, "Reason", &lineMatcher{})
)

func newActionMatcher(actions ...model.Action) parsly.Matcher {
	return &actionMatcher{actions: actions}
}

// actionMatcher matches a case-insensitive action keyword followed by
// whitespace or end of input
type actionMatcher struct {
	actions []model.Action
}

func (m *actionMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	end := pos
	for end < size && isLetter(input[end]) {
		end++
	}
	if end == pos {
		return 0
	}
	if end < size && !isSpace(input[end]) {
		return 0
	}
	word := string(input[pos:end])
	for _, action := range m.actions {
		if strings.EqualFold(word, string(action)) {
			return end - pos
		}
	}
	return 0
}

// orderIDMatcher matches a single non-whitespace token
type orderIDMatcher struct{}

func (m *orderIDMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if isSpace(input[i]) {
			break
		}
		matched++
	}
	return matched
}

// lineMatcher matches everything up to the end of the current line
type lineMatcher struct{}

func (m *lineMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if input[i] == '\n' || input[i] == '\r' {
			break
		}
		matched++
	}
	return matched
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
