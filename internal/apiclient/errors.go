package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/Skotchmaster/storefront/internal/apperr"
)

// decodeError maps a non-2xx backend response onto a normalized error. The backend
// speaks DRF: {"detail": ...}, {"message": ...}, {"non_field_errors": [...]},
// {"<field>": [...]} or an {"errors": {...}} envelope.
func decodeError(status int, raw []byte) *apperr.Error {
	field, msg := drfMessage(raw)

	var e *apperr.Error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e = apperr.InvalidCredentials(msg)
	case status == http.StatusNotFound:
		e = apperr.NotFound(msg)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity || status == http.StatusConflict:
		if msg == "" {
			msg = "the request was rejected"
		}
		e = apperr.Validation(field, msg)
	default:
		if msg == "" {
			msg = "server error, please try again"
		}
		e = apperr.Failed(msg, fmt.Errorf("unexpected status %d", status))
	}
	e.Status = status
	return e
}

var messageKeys = []string{"detail", "message", "non_field_errors", "error", "Error"}

func drfMessage(raw []byte) (field, msg string) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		var list []string
		if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
			return "", list[0]
		}
		return "", ""
	}

	for _, k := range messageKeys {
		if v, ok := obj[k]; ok {
			if s := firstString(v); s != "" {
				return "", s
			}
		}
	}

	if nested, ok := obj["errors"]; ok {
		if f, m := drfMessage(nested); m != "" {
			return f, m
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		if k != "status" && k != "errors" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s := firstString(obj[k]); s != "" {
			return k, s
		}
	}
	return "", ""
}

// firstString accepts "msg", ["msg", ...] or {"k": "msg"}.
func firstString(v json.RawMessage) string {
	var s string
	if json.Unmarshal(v, &s) == nil {
		return strings.TrimSpace(s)
	}
	var list []json.RawMessage
	if json.Unmarshal(v, &list) == nil {
		for _, item := range list {
			if s := firstString(item); s != "" {
				return s
			}
		}
		return ""
	}
	var obj map[string]json.RawMessage
	if json.Unmarshal(v, &obj) == nil {
		_, m := drfMessage(v)
		return m
	}
	return ""
}
