package logtool

import (
	"encoding/json"
	"github.com/jom-io/logalyzer/src/record"
)

type MatchedRecord struct {
	FilePath   string        `json:"path"`
	LineNumber int64         `json:"line"`
	Record     record.Record `json:"record"`
}

func (m MatchedRecord) ToJsonStr() string {
	str, _ := json.Marshal(m)
	return string(str)
}

type SearchResult struct {
	Records  []MatchedRecord `json:"records"`
	LastPath string          `json:"lastPath"`
	LastLine int64           `json:"lastLine"`
	// More is set when Size cut the result short.
	More bool `json:"more"`
}

type FormatInfo struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
}
