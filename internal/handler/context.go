package handler

type ContextKey string

var (
	SubCtxKey       ContextKey = "sub"
	MyInfoCtx       ContextKey = "myInfo"
	BusinessCtx     ContextKey = "businessContext"
	ShiftCtx        ContextKey = "shift"
	EmployeeCtx     ContextKey = "employee"
	BranchCtx       ContextKey = "branch"
	SubmissionCtx   ContextKey = "submission"
)
