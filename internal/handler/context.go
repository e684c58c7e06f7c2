package handler

type ContextKey string

var (
	RoleCtxKey      ContextKey = "role"
	SubCtxKey       ContextKey = "sub"
	MyInfoCtx       ContextKey = "myInfo"
	ReviewerInfoCtx ContextKey = "reviewerInfo"
	TimeSlotCtx     ContextKey = "timeSlot"
	ApplicantCtx    ContextKey = "applicant"
	DraftIDCtx      ContextKey = "draftID"
	DraftCtx        ContextKey = "draft"
)
