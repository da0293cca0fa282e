package core

// Method identifies which resolution step produced a download URL.
type Method string

const (
	MethodDirect   Method = "direct"
	MethodAPI      Method = "api"
	MethodFallback Method = "fallback"
	MethodNone     Method = "none"
)

// Status is the overall outcome of a resolution.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Result is the outcome of resolving one PURL. It is created once per
// resolution and never mutated afterwards.
//
// Status is "success" exactly when DownloadURL is set, with one exception:
// a checksum mismatch on a generic PURL yields a failed Result that still
// carries the URL, so callers can decide whether a failed-but-present URL
// is usable.
type Result struct {
	PURL              string `json:"purl"`
	DownloadURL       string `json:"download_url,omitempty"`
	Validated         bool   `json:"validated"`
	Method            Method `json:"method"`
	FallbackCommand   string `json:"fallback_command,omitempty"`
	FallbackAvailable bool   `json:"fallback_available"`
	Error             string `json:"error,omitempty"`
	Status            Status `json:"status"`
}
