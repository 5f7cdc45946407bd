package rbac

const (
	PermLessonView   = "lesson:view"
	PermLessonCreate = "lesson:create"
	PermLessonUpdate = "lesson:update"
	PermLessonDelete = "lesson:delete"
	PermQuizTake     = "quiz:take"
	PermQuizGenerate = "quiz:generate"
	PermQuizExport   = "quiz:export"
	PermAssetUpload  = "asset:upload"
	PermResultsView  = "results:view"
)

// Students are anonymous; the teacher can do everything a student can.
var policy = map[Role][]string{
	Student: {
		PermLessonView,
		PermQuizTake,
	},
	Teacher: {
		"lesson:*",
		PermQuizTake,
		PermQuizGenerate,
		PermQuizExport,
		PermAssetUpload,
		PermResultsView,
	},
}
