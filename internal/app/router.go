package app

import (
	"class_tracker/docs"
	"class_tracker/internal/middleware"
	"class_tracker/internal/model"
	"class_tracker/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.services.auth))
	{
		authGroup.POST("/logout", c.auth.Logout)
		authGroup.GET("/profile", c.auth.Profile)
		authGroup.PUT("/profile/password", c.auth.ChangePassword)

		// 教师相关接口
		a.registerTeacherRoutes(authGroup, c)

		// 管理员相关接口
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.POST("/login", a.loginLimiter.Middleware(), c.auth.Login)
	}
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("")
	teacher.Use(middleware.RequireRole(model.Teacher, model.Admin))
	{
		// 班级与学生
		teacher.GET("/classes", c.class.ListClasses)
		teacher.POST("/classes", c.class.CreateClass)
		teacher.DELETE("/classes/:id", c.class.DeleteClass)
		teacher.GET("/classes/:id/students", c.class.ListStudents)
		teacher.POST("/classes/:id/students", c.class.AddStudents)
		teacher.GET("/classes/:id/report", c.report.ClassReport)
		teacher.GET("/students/export", c.class.ExportStudents)
		teacher.DELETE("/students/:id", c.class.DeleteStudent)
		teacher.GET("/students/:id/comments", c.comment.StudentReport)
		teacher.GET("/students/:id/grammar", c.grammar.StudentSummary)

		// 作业
		teacher.GET("/homework", c.homework.History)
		teacher.GET("/homework/grid", c.homework.Grid)
		teacher.PUT("/homework", c.homework.Save)

		// 评语
		teacher.GET("/comments", c.comment.ListComments)
		teacher.POST("/comments", c.comment.AddComment)
		teacher.DELETE("/comments/:id", c.comment.DeleteComment)

		// 拼写
		teacher.GET("/spelling", c.spelling.Week)
		teacher.PUT("/spelling", c.spelling.SaveScores)
		teacher.GET("/spelling/analytics", c.spelling.Analytics)

		// 语法错误
		teacher.GET("/grammar", c.grammar.ClassSummary)
		teacher.POST("/grammar", c.grammar.RecordError)

		// 待办
		teacher.GET("/todos", c.todo.ListTodos)
		teacher.POST("/todos", c.todo.AddTodo)
		teacher.PUT("/todos/:id", c.todo.SetStatus)
		teacher.DELETE("/todos/:id", c.todo.DeleteTodo)
		teacher.POST("/todos/complete-all", c.todo.CompleteAll)
		teacher.POST("/todos/clear-done", c.todo.ClearDone)
	}

	dictation := teacher.Group("/dictation")
	{
		dictation.GET("/tasks", c.dictation.ListTasks)
		dictation.POST("/tasks", c.dictation.CreateTask)
		dictation.DELETE("/tasks/:id", c.dictation.DeleteTask)
		dictation.GET("/tasks/:id/scores", c.dictation.ListScores)
		dictation.POST("/score", c.dictation.Score)
		dictation.POST("/scores", c.dictation.SaveScore)
	}

	essays := teacher.Group("/essays")
	{
		essays.GET("/rubrics", c.essay.Rubrics)
		essays.POST("/mark", c.essay.Mark)
		essays.GET("", c.essay.History)
		essays.POST("", c.essay.Save)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RequireRole(model.Admin), middleware.RequirePermission(model.PermAdminPanel))
	{
		admin.GET("/overview", c.admin.Overview)
		admin.GET("/export/:dataset", c.admin.Export)
		admin.GET("/tables", c.admin.Tables)
		admin.GET("/tables/:table", c.admin.BrowseTable)
		admin.POST("/query", middleware.RequirePermission(model.PermDBBrowser), c.admin.Query)
		admin.POST("/purge", middleware.RequirePermission(model.PermPurgeData), c.admin.Purge)

		admin.GET("/users", c.user.ListUsers)
		admin.POST("/users", c.user.CreateUser)
		admin.PUT("/users/:id/active", c.user.SetActive)
		admin.POST("/users/:id/permissions", c.user.GrantPermission)
		admin.DELETE("/users/:id/permissions/:name", c.user.RevokePermission)
		admin.PUT("/users/:id/password", c.user.ResetPassword)
	}
}
