package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var ErrNoToken = errors.New("api: login response carried no token")

// DecodeList accepts the list shapes the backend has used over time: a bare
// array, an object with an "items" array, null or nothing at all. Any other
// shape decodes to an empty list.
func DecodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	switch raw[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		var wrapped struct {
			Items json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, err
		}
		items := bytes.TrimSpace(wrapped.Items)
		if len(items) == 0 || items[0] != '[' {
			return []T{}, nil
		}
		return DecodeList[T](items)
	default:
		return []T{}, nil
	}
}

// DecodeToken pulls the bearer token out of a login response, which may be a
// bare JSON string or an object with access_token, token or jwt.
func DecodeToken(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", ErrNoToken
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		if s = strings.TrimSpace(s); s == "" {
			return "", ErrNoToken
		}
		return s, nil
	}

	var obj struct {
		AccessToken string `json:"access_token"`
		Token       string `json:"token"`
		JWT         string `json:"jwt"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", ErrNoToken
	}
	for _, t := range []string{obj.AccessToken, obj.Token, obj.JWT} {
		if t = strings.TrimSpace(t); t != "" {
			return t, nil
		}
	}
	return "", ErrNoToken
}
