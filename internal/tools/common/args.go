package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bkscholar/scholar/internal/toolerrors"
)

// RequiredString returns the non-empty string argument name.
func RequiredString(args map[string]any, name string) (string, error) {
	v, ok := args[name].(string)
	if !ok || v == "" {
		return "", toolerrors.NewValidationError(name, v, fmt.Errorf("%s is required", name))
	}
	return v, nil
}

// OptionalString returns the string argument name, or "" when absent.
func OptionalString(args map[string]any, name string) string {
	v, _ := args[name].(string)
	return v
}

// RequiredInt64 returns the integer argument name. JSON numbers arrive as
// float64; numeric strings are accepted too.
func RequiredInt64(args map[string]any, name string) (int64, error) {
	switch v := args[name].(type) {
	case float64:
		if v != math.Trunc(v) || v >= math.MaxInt64 || v < math.MinInt64 {
			return 0, toolerrors.NewValidationError(name, strconv.FormatFloat(v, 'f', -1, 64), fmt.Errorf("%s must be an integer", name))
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, toolerrors.NewValidationError(name, v, fmt.Errorf("%s must be an integer", name))
		}
		return n, nil
	case nil:
		return 0, toolerrors.NewValidationError(name, "", fmt.Errorf("%s is required", name))
	default:
		return 0, toolerrors.NewValidationError(name, fmt.Sprint(v), fmt.Errorf("%s must be an integer", name))
	}
}

// targetArgs are the argument names that identify the entity a tool acts on,
// in lookup order.
var targetArgs = []string{"eventId", "folderId", "parentFolderId", "parentId", "id"}

// TargetFromArgs returns the id the call acts on, for audit logging.
func TargetFromArgs(args map[string]any) string {
	for _, name := range targetArgs {
		switch v := args[name].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
