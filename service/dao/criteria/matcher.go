package criteria

import (
	"github.com/viant/chatapproval/model"
	"github.com/viant/chatapproval/service/dao"
)

// Matches reports whether an order satisfies every supplied parameter.
// Unknown parameter names are ignored.
func Matches(order *model.Order, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		switch parameter.Name {
		case dao.ParameterStatus:
			if !matchAny(string(order.Status), parameter.Value, func(a, b string) bool { return a == b }) {
				return false
			}
		case dao.ParameterRecipient:
			if !matchAny("", parameter.Value, func(_, key string) bool { return order.Response(key) != nil }) {
				return false
			}
		}
	}
	return true
}

func matchAny(actual string, value interface{}, eq func(a, b string) bool) bool {
	switch expected := value.(type) {
	case string:
		return eq(actual, expected)
	case []string:
		for _, candidate := range expected {
			if eq(actual, candidate) {
				return true
			}
		}
		return false
	}
	return true
}
