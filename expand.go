package chatapproval

import (
	"os"
	"reflect"
	"strings"
	"unicode"
)

const envExprPrefix = "${env."

// expandEnv replaces every ${env.KEY} in value with the KEY environment
// variable, "" when unset. Malformed expressions are kept literally.
func expandEnv(value string) string {
	if !strings.Contains(value, envExprPrefix) {
		return value
	}
	var b strings.Builder
	rest := value
	for {
		idx := strings.Index(rest, envExprPrefix)
		if idx < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:idx])
		rest = rest[idx+len(envExprPrefix):]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			b.WriteString(envExprPrefix)
			b.WriteString(rest)
			return b.String()
		}
		key := rest[:end]
		if !isEnvKey(key) {
			b.WriteString(envExprPrefix)
			continue
		}
		b.WriteString(os.Getenv(key))
		rest = rest[end+1:]
	}
}

func isEnvKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}

// expandStrings applies expandEnv to every settable string field of value
func expandStrings(value reflect.Value) {
	switch value.Kind() {
	case reflect.Ptr:
		if !value.IsNil() {
			expandStrings(value.Elem())
		}
	case reflect.Struct:
		for i := 0; i < value.NumField(); i++ {
			if value.Type().Field(i).IsExported() {
				expandStrings(value.Field(i))
			}
		}
	case reflect.String:
		if value.CanSet() {
			value.SetString(expandEnv(value.String()))
		}
	}
}
