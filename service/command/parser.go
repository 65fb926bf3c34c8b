package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/viant/chatapproval/model"
	"github.com/viant/parsly"
)

// ErrUnrecognized is returned for text that is not an approval command
var ErrUnrecognized = errors.New("command: unrecognized")

// Parse parses a reply in the format: ACTION ORDER_ID [free text]
// where ACTION is APPROVE or REJECT (case-insensitive). The free text is the
// remainder of the line following the order id.
func Parse(text string) (*model.Intent, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		return nil, ErrUnrecognized
	}
	cursor := parsly.NewCursor("", []byte(input), 0)

	matched := cursor.MatchOne(actionToken)
	if matched.Code != actionToken.Code {
		return nil, unrecognized(cursor, actionToken)
	}
	intent := &model.Intent{Action: model.Action(strings.ToUpper(matched.Text(cursor)))}

	matched = cursor.MatchAfterOptional(whitespaceToken, orderIDToken)
	if matched.Code != orderIDToken.Code {
		return nil, unrecognized(cursor, orderIDToken)
	}
	intent.OrderID = matched.Text(cursor)

	if cursor.Pos >= cursor.InputSize {
		return intent, nil
	}
	matched = cursor.MatchAfterOptional(whitespaceToken, reasonToken)
	if matched.Code == reasonToken.Code {
		if reason := strings.TrimSpace(matched.Text(cursor)); reason != "" {
			intent.Reason = &reason
		}
	}
	return intent, nil
}

func unrecognized(cursor *parsly.Cursor, expected *parsly.Token) error {
	return fmt.Errorf("%w: %v", ErrUnrecognized, cursor.NewError(expected))
}
