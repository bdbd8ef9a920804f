package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ShiftAssignedMailData struct {
	FullName   string `json:"fullName"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	BranchName string `json:"branchName"`
}

type SubmissionReviewedMailData struct {
	FullName string `json:"fullName"`
	Approved bool   `json:"approved"`
	Notes    string `json:"notes"`
}
