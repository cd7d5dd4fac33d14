package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/edu-catalog-backend/controllers"
	"github.com/vnkhanh/edu-catalog-backend/middleware"
	"github.com/vnkhanh/edu-catalog-backend/ws"
)

func SetupRouter(r *gin.Engine) {
	r.GET("/health", controllers.HealthCheck)

	// WebSocket: token đi qua query vì trình duyệt không gắn header được.
	r.GET("/ws/catalog/:track", ws.ServeCatalogWS)
	r.GET("/ws/status", ws.ServeStatusWS)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/google-login", controllers.GoogleLogin)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
		auth.POST("/change-password", middleware.AuthMiddleware(), controllers.ChangePassword)
	}

	user := api.Group("/user")
	user.Use(middleware.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/profile", controllers.UpdateProfile)
		user.GET("/response-sheet", controllers.GetMyResponseSheet)
	}

	// Duyệt danh mục: mọi tài khoản đã đăng nhập.
	browse := api.Group("")
	browse.Use(middleware.AuthMiddleware())
	{
		// Không đặt dưới /catalog/:track để tránh xung đột wildcard của gin.
		browse.GET("/tracks", controllers.GetTracks)
		browse.POST("/catalog/:track/children", controllers.ListCatalogChildren)
		browse.GET("/catalog/:track/groups", controllers.GetGroups)
		browse.GET("/groups/:groupId/courses", controllers.GetCoursesByGroup)
		browse.GET("/semesters", controllers.GetSemesters)
		browse.GET("/subjects", controllers.GetSubjects)
		browse.GET("/subjects/:subjectId/units", controllers.GetUnitsBySubject)
		browse.GET("/units/:id", controllers.GetUnit)
		browse.GET("/units/:id/quizzes", controllers.GetQuizzesByUnit)
		browse.GET("/quizzes/:id/take", controllers.GetQuizForTaking)

		browse.GET("/notifications", controllers.GetNotifications)
		browse.GET("/exams", controllers.GetExamNotifications)

		// Làm bài có đếm giờ.
		browse.POST("/quizzes/:id/attempts", controllers.StartAttempt)
		browse.PUT("/attempts/:id/answer", controllers.SelectAnswer)
		browse.PUT("/attempts/:id/clear-answer", controllers.ClearAnswer)
		browse.POST("/attempts/:id/submit-request", controllers.RequestSubmit)
		browse.POST("/attempts/:id/submit-cancel", controllers.CancelSubmit)
		browse.POST("/attempts/:id/submit-confirm", controllers.ConfirmSubmit)

		// Nộp bài trực tiếp (chế độ luyện tập, không đếm giờ).
		browse.POST("/quizzes/:id/submit", controllers.SubmitQuiz)
	}

	// Quản lý nội dung: admin và staff.
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles("admin", "staff"))
	{
		admin.POST("/groups", controllers.CreateGroup)
		admin.PUT("/groups/:id", controllers.UpdateGroup)
		admin.DELETE("/groups/:id", controllers.DeleteGroup)

		admin.POST("/courses", controllers.CreateCourse)
		admin.PUT("/courses/:id", controllers.UpdateCourse)
		admin.DELETE("/courses/:id", controllers.DeleteCourse)

		admin.POST("/semesters", controllers.CreateSemester)
		admin.PUT("/semesters/:id", controllers.UpdateSemester)
		admin.DELETE("/semesters/:id", controllers.DeleteSemester)

		admin.POST("/subjects", controllers.CreateSubject)
		admin.PUT("/subjects/:id", controllers.UpdateSubject)
		admin.DELETE("/subjects/:id", controllers.DeleteSubject)

		admin.POST("/units", controllers.CreateUnit)
		admin.PUT("/units/:id", controllers.UpdateUnit)
		admin.DELETE("/units/:id", controllers.DeleteUnit)

		admin.POST("/quizzes", controllers.CreateQuiz)
		admin.GET("/quizzes/:id", controllers.GetQuizAdmin)
		admin.PUT("/quizzes/:id", controllers.UpdateQuiz)
		admin.DELETE("/quizzes/:id", controllers.DeleteQuiz)
		admin.GET("/quizzes/:id/responses", controllers.GetQuizResponses)

		admin.POST("/notifications", controllers.CreateNotification)
		admin.PUT("/notifications/:id", controllers.UpdateNotification)
		admin.DELETE("/notifications/:id", controllers.DeleteNotification)

		admin.POST("/exams", controllers.CreateExamNotification)
		admin.PUT("/exams/:id", controllers.UpdateExamNotification)
		admin.DELETE("/exams/:id", controllers.DeleteExamNotification)
	}

	// Quản trị tài khoản: chỉ admin.
	root := api.Group("/admin")
	root.Use(middleware.AuthMiddleware(), middleware.RequireRoles("admin"))
	{
		root.POST("/staff", controllers.AdminCreateStaff)
		root.GET("/users", controllers.AdminListUsers)
		root.PUT("/users/:id/toggle-status", controllers.AdminToggleUserStatus)
	}
}
