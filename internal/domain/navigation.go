package domain

// Decision values
const (
	DecisionNavigate Decision = "navigate"
	DecisionDownload Decision = "download"
	DecisionExternal Decision = "external"
)

// Decision is the outcome of a navigation attempt.
type Decision string

// String returns the decision name
func (d Decision) String() string {
	return string(d)
}

// NavigationRequest is a single navigation attempt made by an embedded view.
// It is read-only and discarded once classified.
type NavigationRequest struct {
	URL         string
	DomainIndex int64
	ViewID      string
}

// Classification is the result of matching a URL against a trusted domain.
type Classification struct {
	IsTrusted           bool
	IsDownloadCandidate bool
}

// Decision maps the classification to the action the host must take.
func (c Classification) Decision() Decision {
	switch {
	case !c.IsTrusted:
		return DecisionExternal
	case c.IsDownloadCandidate:
		return DecisionDownload
	default:
		return DecisionNavigate
	}
}
