package record

import (
	"encoding/json"
	"time"
)

// Record is one parsed access-log entry. It is passed by value and never
// modified after the parser builds it.
type Record struct {
	ClientAddress string
	Timestamp     time.Time
	Method        Method
	Path          string
	Status        int
	Size          int64
	HasSize       bool // false when the server logged "-"
	Raw           string
}

func (r Record) IsError() bool {
	return r.Status >= 400
}

func (r Record) StatusClass() StatusClass {
	return ClassOf(r.Status)
}

// SizeOrZero returns the reported size, or 0 when it is absent.
func (r Record) SizeOrZero() int64 {
	if !r.HasSize {
		return 0
	}
	return r.Size
}

type recordJSON struct {
	IP        string    `json:"ip"`
	Timestamp time.Time `json:"timestamp"`
	Method    Method    `json:"method"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	Size      *int64    `json:"size"`
	Raw       string    `json:"raw"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		IP:        r.ClientAddress,
		Timestamp: r.Timestamp,
		Method:    r.Method,
		Path:      r.Path,
		Status:    r.Status,
		Raw:       r.Raw,
	}
	if r.HasSize {
		size := r.Size
		out.Size = &size
	}
	return json.Marshal(out)
}

func (r Record) ToJsonStr() string {
	str, _ := json.Marshal(r)
	return string(str)
}
