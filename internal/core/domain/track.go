package domain

// ResultType is the routing result reported to the stat tracker
type ResultType string

const (
	ResultMiss        ResultType = "MISS"
	ResultDSRedirect  ResultType = "DS_REDIRECT"
	ResultGeo         ResultType = "GEO"
	ResultGeoRedirect ResultType = "GEO_REDIRECT"
	ResultCZ          ResultType = "CZ"
	ResultError       ResultType = "ERROR"
)

// ResultDetails refines the result type
type ResultDetails string

const (
	ResultDetailsNone           ResultDetails = "NO_DETAILS"
	ResultDetailsDSNoBypass     ResultDetails = "DS_NO_BYPASS"
	ResultDetailsDSBypass       ResultDetails = "DS_BYPASS"
	ResultDetailsGeoUnsupported ResultDetails = "DS_CLIENT_GEO_UNSUPPORTED"
)

// Track is the classification of one routing decision
type Track struct {
	Result        ResultType
	ResultDetails ResultDetails
}

// NoBypassTrack is reported when no fallback answer is configured
var NoBypassTrack = Track{Result: ResultMiss, ResultDetails: ResultDetailsDSNoBypass}

// TrackEvent is a decision as written by the reporter
type TrackEvent struct {
	DeliveryService string        `json:"deliveryService"`
	Operation       string        `json:"operation"`
	ClientIP        string        `json:"clientIp"`
	Result          ResultType    `json:"result"`
	ResultDetails   ResultDetails `json:"resultDetails"`
	Answer          []string      `json:"answer,omitempty"`
}
