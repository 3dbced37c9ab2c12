package format

import (
	"github.com/jom-io/logalyzer/src/record"
	"github.com/tidwall/gjson"
	"strconv"
	"strings"
	"time"
)

// Field aliases accepted by the json format, first present wins. They cover
// the usual nginx `log_format ... escape=json` and Caddy/Traefik style keys.
var (
	jsonIPKeys      = []string{"remote_addr", "client_ip", "ip", "remote_ip"}
	jsonTimeKeys    = []string{"time_iso8601", "time_local", "time", "timestamp", "ts"}
	jsonMethodKeys  = []string{"method", "request_method"}
	jsonPathKeys    = []string{"path", "uri", "request_uri"}
	jsonRequestKeys = []string{"request"}
	jsonStatusKeys  = []string{"status", "status_code"}
	jsonSizeKeys    = []string{"body_bytes_sent", "bytes_sent", "size", "bytes"}
)

var jsonTimeLayouts = []string{
	time.RFC3339Nano,
	TimestampLayout,
	"2006-01-02 15:04:05 -0700",
}

type jsonParser struct{}

// NewJSON returns the parser for one JSON object per line.
func NewJSON() Parser {
	return jsonParser{}
}

func (jsonParser) Name() string {
	return JSONLines
}

func (p jsonParser) Parse(line string) (record.Record, error) {
	line = strings.TrimRight(line, "\r\n")
	if !gjson.Valid(line) {
		return record.Record{}, parseErr(JSONLines, line, ErrNoMatch, "")
	}
	doc := gjson.Parse(line)
	if !doc.IsObject() {
		return record.Record{}, parseErr(JSONLines, line, ErrNoMatch, "")
	}

	ip := lookup(doc, jsonIPKeys)
	tsVal := lookup(doc, jsonTimeKeys)
	statusVal := lookup(doc, jsonStatusKeys)
	if !ip.Exists() || !tsVal.Exists() || !statusVal.Exists() {
		return record.Record{}, parseErr(JSONLines, line, ErrNoMatch, "missing field")
	}

	ts, err := parseJSONTime(tsVal)
	if err != nil {
		return record.Record{}, parseErr(JSONLines, line, ErrTimestamp, tsVal.String())
	}

	methodStr, path := lookup(doc, jsonMethodKeys).String(), lookup(doc, jsonPathKeys).String()
	if req := lookup(doc, jsonRequestKeys); req.Exists() && (methodStr == "" || path == "") {
		parts := strings.Fields(req.String())
		if len(parts) >= 2 {
			methodStr, path = parts[0], parts[1]
		}
	}
	if path == "" {
		return record.Record{}, parseErr(JSONLines, line, ErrNoMatch, "missing path")
	}
	method, ok := record.ParseMethod(methodStr)
	if !ok {
		return record.Record{}, parseErr(JSONLines, line, ErrMethod, methodStr)
	}

	status, ok := jsonInt(statusVal)
	if !ok {
		return record.Record{}, parseErr(JSONLines, line, ErrStatus, statusVal.String())
	}

	rec := record.Record{
		ClientAddress: ip.String(),
		Timestamp:     ts,
		Method:        method,
		Path:          path,
		Status:        int(status),
		Raw:           line,
	}
	if sizeVal := lookup(doc, jsonSizeKeys); sizeVal.Exists() && sizeVal.Type != gjson.Null && sizeVal.String() != "-" {
		size, ok := jsonInt(sizeVal)
		if !ok || size < 0 {
			return record.Record{}, parseErr(JSONLines, line, ErrSize, sizeVal.String())
		}
		rec.Size, rec.HasSize = size, true
	}
	return rec, nil
}

func lookup(doc gjson.Result, keys []string) gjson.Result {
	for _, k := range keys {
		if v := doc.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func jsonInt(v gjson.Result) (int64, bool) {
	switch v.Type {
	case gjson.Number:
		if v.Num != float64(int64(v.Num)) {
			return 0, false
		}
		return v.Int(), true
	case gjson.String:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func parseJSONTime(v gjson.Result) (time.Time, error) {
	if v.Type == gjson.Number {
		sec := v.Float()
		return time.Unix(int64(sec), int64((sec-float64(int64(sec)))*1e9)).UTC(), nil
	}
	s := strings.TrimSpace(v.String())
	var lastErr error
	for _, layout := range jsonTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
