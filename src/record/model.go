package record

type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
)

// Methods lists the supported verbs in their canonical order.
var Methods = []Method{MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch, MethodHead, MethodOptions}

// ParseMethod matches s exactly, case-sensitive.
func ParseMethod(s string) (Method, bool) {
	for _, m := range Methods {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

func (m Method) Str() string {
	return string(m)
}

type StatusClass string

const (
	Informational StatusClass = "INFORMATIONAL"
	Success       StatusClass = "SUCCESS"
	Redirection   StatusClass = "REDIRECTION"
	ClientError   StatusClass = "CLIENT_ERROR"
	ServerError   StatusClass = "SERVER_ERROR"
	Undefined     StatusClass = "UNDEFINED" // status outside 100-599
)

var StatusClasses = []StatusClass{Informational, Success, Redirection, ClientError, ServerError}

// ClassOf buckets a status code by its leading digit.
func ClassOf(status int) StatusClass {
	switch {
	case status >= 100 && status < 200:
		return Informational
	case status >= 200 && status < 300:
		return Success
	case status >= 300 && status < 400:
		return Redirection
	case status >= 400 && status < 500:
		return ClientError
	case status >= 500 && status < 600:
		return ServerError
	default:
		return Undefined
	}
}

func (c StatusClass) Defined() bool {
	return c != Undefined && c != ""
}

// Label is the category name shown in reports.
func (c StatusClass) Label() string {
	switch c {
	case Informational:
		return "Informational"
	case Success:
		return "Success"
	case Redirection:
		return "Redirect"
	case ClientError:
		return "Client Error"
	case ServerError:
		return "Server Error"
	default:
		return "Undefined"
	}
}

func (c StatusClass) Str() string {
	return string(c)
}
