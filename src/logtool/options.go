package logtool

import (
	"github.com/jom-io/logalyzer/src/record"
	"strings"
)

const (
	DefaultSize = 100
	MaxSize     = 10000
)

type SearchOptions struct {
	Paths   []string `json:"paths" form:"paths"`
	Format  string   `json:"format" form:"format"`
	Strict  bool     `json:"strict" form:"strict"`
	Keyword string   `json:"keyword" form:"keyword"`
	Methods []string `json:"methods" form:"methods"`
	// ErrorsOnly keeps records with a status of 400 or more.
	ErrorsOnly bool `json:"errorsOnly" form:"errorsOnly"`

	RootDir  string `json:"-" form:"-"`
	Size     int    `json:"size" form:"size"`
	LastPath string `json:"lastPath" form:"lastPath"`
	LastLine int64  `json:"lastLine" form:"lastLine"`
}

func (o SearchOptions) match(rec record.Record) bool {
	if o.ErrorsOnly && !rec.IsError() {
		return false
	}
	if len(o.Methods) > 0 {
		matched := false
		for _, m := range o.Methods {
			if strings.EqualFold(m, rec.Method.Str()) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if o.Keyword != "" && !strings.Contains(rec.Raw, o.Keyword) {
		return false
	}
	return true
}
