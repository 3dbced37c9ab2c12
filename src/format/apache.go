package format

import (
	"github.com/jom-io/logalyzer/src/record"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the Apache "%t" layout, e.g. 18/Nov/2025:20:11:42 +0200.
const TimestampLayout = "2/Jan/2006:15:04:05 -0700"

const clfPrefix = `^(?P<ip>(?:\d{1,3}\.){3}\d{1,3})\s+` +
	`(?P<ident>\S+)\s+` +
	`(?P<authuser>\S+)\s+` +
	`\[(?P<timestamp>\d{1,2}/\w+/\d{4}:\d{2}:\d{2}:\d{2}\s+[+-]\d{4})\]\s+` +
	`"(?P<method>[A-Z]+)\s+(?P<path>\S+)\s+(?P<protocol>HTTP/\d\.\d)"\s+` +
	`(?P<status>\d{3})\s+` +
	`(?P<size>\d+|-)`

var (
	combinedPattern = regexp.MustCompile(clfPrefix + `\s+"(?P<referer>[^"]*)"\s+"(?P<user_agent>[^"]*)"`)
	commonPattern   = regexp.MustCompile(clfPrefix)
)

// clfParser parses the NCSA common log family. ident, authuser, protocol,
// referer and user agent are matched but not kept.
type clfParser struct {
	name    string
	pattern *regexp.Regexp

	ip, ts, method, path, status, size int
}

func newCLF(name string, pattern *regexp.Regexp) *clfParser {
	return &clfParser{
		name:    name,
		pattern: pattern,
		ip:      pattern.SubexpIndex("ip"),
		ts:      pattern.SubexpIndex("timestamp"),
		method:  pattern.SubexpIndex("method"),
		path:    pattern.SubexpIndex("path"),
		status:  pattern.SubexpIndex("status"),
		size:    pattern.SubexpIndex("size"),
	}
}

// NewApacheCombined returns the parser for Apache/Nginx "combined" lines.
func NewApacheCombined() Parser {
	return newCLF(ApacheCombined, combinedPattern)
}

// NewApacheCommon returns the parser for lines without referer and user agent.
func NewApacheCommon() Parser {
	return newCLF(ApacheCommon, commonPattern)
}

func (p *clfParser) Name() string {
	return p.name
}

func (p *clfParser) Parse(line string) (record.Record, error) {
	line = strings.TrimRight(line, "\r\n")
	m := p.pattern.FindStringSubmatch(line)
	if m == nil {
		return record.Record{}, parseErr(p.name, line, ErrNoMatch, "")
	}

	ts, err := ParseTimestamp(m[p.ts])
	if err != nil {
		return record.Record{}, parseErr(p.name, line, ErrTimestamp, m[p.ts])
	}

	method, ok := record.ParseMethod(m[p.method])
	if !ok {
		return record.Record{}, parseErr(p.name, line, ErrMethod, m[p.method])
	}

	status, err := strconv.Atoi(m[p.status])
	if err != nil {
		return record.Record{}, parseErr(p.name, line, ErrStatus, m[p.status])
	}

	rec := record.Record{
		ClientAddress: m[p.ip],
		Timestamp:     ts,
		Method:        method,
		Path:          m[p.path],
		Status:        status,
		Raw:           line,
	}
	if sizeStr := m[p.size]; sizeStr != "-" {
		size, err := strconv.ParseInt(sizeStr, 10, 64)
		if err != nil {
			return record.Record{}, parseErr(p.name, line, ErrSize, sizeStr)
		}
		rec.Size, rec.HasSize = size, true
	}
	return rec, nil
}

// ParseTimestamp parses an Apache "%t" value without the brackets.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, strings.Join(strings.Fields(s), " "))
}

// FormatTimestamp is the inverse of ParseTimestamp.
func FormatTimestamp(t time.Time) string {
	return t.Format("02/Jan/2006:15:04:05 -0700")
}
