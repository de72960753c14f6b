package nodeuri

import (
	"encoding/json"
	"strconv"
)

// vmessDecoder reads the Base64-wrapped JSON form used by v2rayN style
// exports. Only ps, add and port are consulted.
type vmessDecoder struct{}

func (vmessDecoder) config(body string) (map[string]any, bool) {
	text, ok := decodeBase64Text(body)
	if !ok {
		return nil, false
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(text), &v); err != nil || v == nil {
		return nil, false
	}
	return v, true
}

func (d vmessDecoder) name(body string) (string, bool) {
	v, ok := d.config(body)
	if !ok {
		return "", false
	}
	return jsonString(v["ps"]), true
}

func (d vmessDecoder) hostPort(body string) (HostPort, bool) {
	v, ok := d.config(body)
	if !ok {
		return HostPort{}, false
	}
	return HostPort{
		Host: jsonString(v["add"]),
		Port: jsonString(v["port"]),
	}, true
}

// jsonString renders a decoded JSON scalar. Falsy values (null, false, 0, "")
// come back empty; objects and arrays are ignored.
func jsonString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
	}
	return ""
}
