package models

// Indicator is how a status is drawn: an icon, a colour tone and a label.
type Indicator struct {
	Icon  string `json:"icon"`
	Tone  string `json:"tone"`
	Label string `json:"label"`
}

var unknownIndicator = Indicator{Icon: "alert-circle", Tone: "gray", Label: "Unknown"}

// StatusIndicator maps every status to an indicator. Values outside the
// enumeration get the unknown indicator.
func StatusIndicator(s Status) Indicator {
	switch s {
	case StatusSubmitted:
		return Indicator{Icon: "file-text", Tone: "blue", Label: "Submitted"}
	case StatusProcessing:
		return Indicator{Icon: "clock", Tone: "yellow", Label: "Processing"}
	case StatusApproved:
		return Indicator{Icon: "check-circle", Tone: "green", Label: "Approved"}
	case StatusRejected:
		return Indicator{Icon: "x-circle", Tone: "red", Label: "Rejected"}
	default:
		return unknownIndicator
	}
}

// TimelineTone colours a timeline dot. Event statuses are free-form review
// steps, so anything unrecognised is drawn as an ordinary step.
func TimelineTone(eventStatus string) string {
	switch eventStatus {
	case "approved":
		return "green"
	case "rejected":
		return "red"
	case "verification":
		return "yellow"
	default:
		return "blue"
	}
}
