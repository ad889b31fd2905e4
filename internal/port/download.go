package port

// DownloadMessage is the fire-and-forget request sent to the download service
type DownloadMessage struct {
	ID            string
	URL           string
	DownloadsPath string
}

// DownloadResponder receives exactly one terminal signal per DownloadMessage
type DownloadResponder interface {
	// Completed reports the saved file for request id
	Completed(id, filePath, fileName string) error

	// Failed reports that request id could not be downloaded
	Failed(id string) error
}

// DownloadService performs the network transfer for intercepted downloads.
// Request must not block on the transfer; the outcome is reported later
// through the bound DownloadResponder.
type DownloadService interface {
	Request(msg DownloadMessage) error
}
