package domain

// FollowerReportRow is one line of the followers report: how many users
// follow a vacation. Every vacation appears, including ones nobody follows.
type FollowerReportRow struct {
	VacationID  int64
	Destination string
	StartDate   string // "2006-01-02"
	EndDate     string // "2006-01-02"
	Followers   int64
}
