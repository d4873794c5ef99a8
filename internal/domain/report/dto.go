package report

// AttendanceExport carries the rendered export plus the metadata the
// transport layer needs for the download response.
type AttendanceExport struct {
	Filename    string
	ContentType string
	Data        []byte
	RowCount    int
}
